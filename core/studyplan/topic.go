package studyplan

import "sort"

// SelectTopic returns the first topic of course, in syllabus order, that is not completed.
// If all topics are completed, the last topic is returned.
// ok is false if the course has no topics.
func SelectTopic(course Course, completed map[int]bool) (topic Topic, ok bool) {
	if len(course.Topics) == 0 {
		return Topic{}, false
	}

	topics := make([]Topic, len(course.Topics))
	copy(topics, course.Topics)
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Order < topics[j].Order })

	for _, t := range topics {
		if !completed[t.ID] {
			return t, true
		}
	}
	return topics[len(topics)-1], true
}

// completedSet returns topic IDs as a set.
func completedSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
