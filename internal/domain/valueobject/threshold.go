package valueobject

import (
	"encoding/json"
	"fmt"
)

// Threshold порог числа проектов для перехода на следующий уровень.
// Нулевое значение с Infinite=true означает, что следующего уровня нет.
type Threshold struct {
	Projects int
	Infinite bool
}

func FiniteThreshold(projects int) Threshold {
	return Threshold{Projects: projects}
}

func InfiniteThreshold() Threshold {
	return Threshold{Infinite: true}
}

// ReachedBy сообщает, что count проектов достаточно для перехода.
func (t Threshold) ReachedBy(count int) bool {
	return !t.Infinite && count >= t.Projects
}

// Progress возвращает процент прогресса к порогу в диапазоне [0, 100].
func (t Threshold) Progress(count int) float64 {
	if t.Infinite || t.Projects <= 0 {
		return 100
	}
	pct := float64(count) / float64(t.Projects) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Ptr возвращает порог как nullable значение для хранения и JSON.
func (t Threshold) Ptr() *int {
	if t.Infinite {
		return nil
	}
	v := t.Projects
	return &v
}

func ThresholdFromPtr(v *int) Threshold {
	if v == nil {
		return InfiniteThreshold()
	}
	return FiniteThreshold(*v)
}

func (t Threshold) String() string {
	if t.Infinite {
		return "∞"
	}
	return fmt.Sprintf("%d", t.Projects)
}

func (t Threshold) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Ptr())
}
