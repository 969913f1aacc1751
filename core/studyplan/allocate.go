package studyplan

import "sort"

// Frequency strategies
const (
	StrategyFrequent       = "frequent"
	StrategyBalanced       = "balanced"
	StrategyRotate         = "rotate"
	StrategyPriorityRotate = "priority_rotate"
)

// Frequency is the weekly repetition policy of the selected subjects.
type Frequency struct {
	Strategy       string
	MinAppearances int
	MaxAppearances int
}

// repeats reports whether subjects may appear more than once a week.
func (f Frequency) repeats() bool {
	return f.Strategy == StrategyFrequent || f.Strategy == StrategyBalanced
}

// FrequencyFor returns the Frequency for numSubjects selected subjects.
func FrequencyFor(numSubjects int) Frequency {
	switch {
	case numSubjects <= 2:
		return Frequency{Strategy: StrategyFrequent, MinAppearances: 2, MaxAppearances: 3}
	case numSubjects <= 4:
		return Frequency{Strategy: StrategyBalanced, MinAppearances: 1, MaxAppearances: 2}
	case numSubjects <= 6:
		return Frequency{Strategy: StrategyRotate, MinAppearances: 1, MaxAppearances: 1}
	default:
		return Frequency{Strategy: StrategyPriorityRotate, MinAppearances: 1, MaxAppearances: 1}
	}
}

// Classify splits courses into core and elective courses, preserving their relative order.
func Classify(courses []Course) (core, electives []Course) {
	core = make([]Course, 0, len(courses))
	electives = make([]Course, 0, len(courses))
	for _, c := range courses {
		if c.IsCore() {
			core = append(core, c)
		} else {
			electives = append(electives, c)
		}
	}
	return core, electives
}

// Allocation maps each weekday to the Course studied that day.
type Allocation map[Weekday]Course

// Courses returns the allocated courses in Weekdays order.
func (a Allocation) Courses() []Course {
	courses := make([]Course, 0, len(a))
	for _, day := range Weekdays {
		if c, ok := a[day]; ok {
			courses = append(courses, c)
		}
	}
	return courses
}

// AllocateDays assigns one course to each weekday.
// Core courses come before electives, weaker (lower strength) courses first.
// The number of appearances of each course depends on FrequencyFor the number of courses.
// Returns an empty Allocation if there are no courses.
func AllocateDays(core, electives []Course, strengths Strengths) Allocation {
	allocation := make(Allocation, len(Weekdays))

	subjects := prioritize(core, electives, strengths)
	if len(subjects) == 0 {
		return allocation
	}

	var slots []Course
	if freq := FrequencyFor(len(subjects)); freq.repeats() {
		slots = repeatSlots(subjects, freq)
	} else {
		slots = make([]Course, 0, len(Weekdays))
		for i := range Weekdays {
			slots = append(slots, subjects[i%len(subjects)])
		}
	}

	for i, day := range Weekdays {
		allocation[day] = slots[i]
	}
	separateRepeats(allocation)
	return allocation
}

// prioritize returns core + electives stably sorted by (core first, strength asc).
func prioritize(core, electives []Course, strengths Strengths) []Course {
	type subject struct {
		course   Course
		rank     int
		strength int
	}

	all := make([]subject, 0, len(core)+len(electives))
	for _, c := range core {
		all = append(all, subject{course: c, rank: 0, strength: strengths.Of(c.ID)})
	}
	for _, c := range electives {
		all = append(all, subject{course: c, rank: 1, strength: strengths.Of(c.ID)})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].rank != all[j].rank {
			return all[i].rank < all[j].rank
		}
		return all[i].strength < all[j].strength
	})

	sorted := make([]Course, 0, len(all))
	for _, s := range all {
		sorted = append(sorted, s.course)
	}
	return sorted
}

// repeatSlots builds exactly len(Weekdays) slots from the sorted subjects:
// each subject gets freq.MinAppearances, leftover slots go to the weakest subjects up to freq.MaxAppearances.
func repeatSlots(subjects []Course, freq Frequency) []Course {
	counts := make([]int, len(subjects))
	remaining := len(Weekdays)
	for i := range subjects {
		counts[i] = freq.MinAppearances
		remaining -= freq.MinAppearances
	}

	for i := range subjects {
		if remaining <= 0 {
			break
		}
		extra := freq.MaxAppearances - counts[i]
		if extra > remaining {
			extra = remaining
		}
		counts[i] += extra
		remaining -= extra
	}

	slots := make([]Course, 0, len(Weekdays))
	for i, c := range subjects {
		for n := 0; n < counts[i]; n++ {
			slots = append(slots, c)
		}
	}
	for len(slots) < len(Weekdays) {
		slots = append(slots, subjects...)
	}
	return slots[:len(Weekdays)]
}

// separateRepeats swaps a day holding the same course as the previous day
// with the nearest later day holding a different course, when there is one.
func separateRepeats(allocation Allocation) {
	for i := 1; i < len(Weekdays); i++ {
		curr, prev := Weekdays[i], Weekdays[i-1]
		if allocation[curr].ID != allocation[prev].ID {
			continue
		}
		for j := i + 1; j < len(Weekdays); j++ {
			next := Weekdays[j]
			if allocation[next].ID != allocation[curr].ID {
				allocation[curr], allocation[next] = allocation[next], allocation[curr]
				break
			}
		}
	}
}
