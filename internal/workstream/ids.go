package workstream

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatThreadRef renders a stage/batch/thread position as "SS.BB.TT".
func FormatThreadRef(stage, batch, thread int) string {
	return fmt.Sprintf("%02d.%02d.%02d", stage, batch, thread)
}

// FormatTaskID renders a task position as "SS.BB.TT.NN".
func FormatTaskID(stage, batch, thread, task int) string {
	return fmt.Sprintf("%s.%02d", FormatThreadRef(stage, batch, thread), task)
}

// ParseTaskID splits "SS.BB.TT.NN" into its four positions.
func ParseTaskID(id string) (stage, batch, thread, task int, ok bool) {
	parts := strings.Split(id, ".")
	if len(parts) != 4 {
		return 0, 0, 0, 0, false
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return 0, 0, 0, 0, false
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nums[3], true
}

// ParseThreadRef splits "SS.BB.TT" into its three positions.
func ParseThreadRef(ref string) (stage, batch, thread int, ok bool) {
	s, b, th, _, ok := ParseTaskID(ref + ".01")
	return s, b, th, ok
}
