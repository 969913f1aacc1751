package studyplan

const minTaskDuration = 5

// GenerateTasks splits the daily study time (minutes) into micro-tasks.
//  - up to 30 minutes: reading + quiz, half each
//  - up to 45 minutes: reading 15, flashcards 10, quiz 15
//  - over 45 minutes: reading 20, flashcards 15, quiz takes the rest
// Three-task sessions are then fitted to the study time.
func GenerateTasks(dailyStudyTime int) []Task {
	if dailyStudyTime <= 30 {
		reading := dailyStudyTime / 2
		return []Task{
			{Type: TaskReading, Duration: reading},
			{Type: TaskQuiz, Duration: dailyStudyTime - reading},
		}
	}

	var tasks []Task
	if dailyStudyTime <= 45 {
		tasks = []Task{
			{Type: TaskReading, Duration: 15},
			{Type: TaskFlashcards, Duration: 10},
			{Type: TaskQuiz, Duration: 15},
		}
	} else {
		tasks = []Task{
			{Type: TaskReading, Duration: 20},
			{Type: TaskFlashcards, Duration: 15},
			{Type: TaskQuiz, Duration: dailyStudyTime - 35},
		}
	}
	fitTasks(tasks, dailyStudyTime)
	return tasks
}

// fitTasks scales the durations down proportionally (min 5 minutes each) when they exceed total,
// or shares the missing minutes between the first (reading) and last (quiz) tasks.
func fitTasks(tasks []Task, total int) {
	sum := 0
	for _, t := range tasks {
		sum += t.Duration
	}

	switch {
	case sum > total:
		for i := range tasks {
			d := tasks[i].Duration * total / sum
			if d < minTaskDuration {
				d = minTaskDuration
			}
			tasks[i].Duration = d
		}
	case sum < total:
		extra := total - sum
		tasks[0].Duration += extra / 2
		tasks[len(tasks)-1].Duration += extra - extra/2
	}
}

// TotalDuration returns the sum of the task durations.
func TotalDuration(tasks []Task) int {
	var total int
	for _, t := range tasks {
		total += t.Duration
	}
	return total
}
