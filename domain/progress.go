package domain

// ComputeProgress returns the percentage of completed checklist entries.
// An empty checklist is 0, never a division by zero. The value is kept
// unrounded; display rounding belongs to the client.
func ComputeProgress(items []SubItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var done int
	for _, item := range items {
		if item.Completed {
			done++
		}
	}
	return float64(done) / float64(len(items)) * 100
}

// AllComplete reports whether every entry of a non-empty checklist is done.
// Used to signal the caller that a completion confirmation may be offered;
// it never flips the task's completed flag by itself.
func AllComplete(items []SubItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.Completed {
			return false
		}
	}
	return true
}

// FilterByPriority returns the subsequence of tasks matching the selector,
// preserving relative order. The "Todas" selector (or an empty one) returns
// the input unfiltered. The input slice is never mutated.
func FilterByPriority(tasks []Task, selector string) []Task {
	if selector == "" || selector == PrioritySelectorAll {
		return tasks
	}
	filtered := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Priority == Priority(selector) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// ComputeOverallProgress returns the percentage of completed tasks within the
// given collection, 0 when it is empty.
func ComputeOverallProgress(tasks []Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var done int
	for _, task := range tasks {
		if task.Completed {
			done++
		}
	}
	return float64(done) / float64(len(tasks)) * 100
}
