package studyplan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTasks(t *testing.T) {
	tests := []struct {
		minutes int
		want    []Task
	}{
		{10, []Task{{TaskReading, 5}, {TaskQuiz, 5}}},
		{25, []Task{{TaskReading, 12}, {TaskQuiz, 13}}},
		{30, []Task{{TaskReading, 15}, {TaskQuiz, 15}}},
		{35, []Task{{TaskReading, 13}, {TaskFlashcards, 8}, {TaskQuiz, 13}}},
		{40, []Task{{TaskReading, 15}, {TaskFlashcards, 10}, {TaskQuiz, 15}}},
		{45, []Task{{TaskReading, 17}, {TaskFlashcards, 10}, {TaskQuiz, 18}}},
		{60, []Task{{TaskReading, 20}, {TaskFlashcards, 15}, {TaskQuiz, 25}}},
		{120, []Task{{TaskReading, 20}, {TaskFlashcards, 15}, {TaskQuiz, 85}}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d minutes", tt.minutes), func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateTasks(tt.minutes))
		})
	}
}

func TestGenerateTasks_bounds(t *testing.T) {
	for minutes := 1; minutes <= 240; minutes++ {
		tasks := GenerateTasks(minutes)
		if minutes <= 30 {
			assert.Len(t, tasks, 2)
			assert.Equal(t, minutes, TotalDuration(tasks))
			continue
		}

		assert.Len(t, tasks, 3)
		assert.LessOrEqual(t, TotalDuration(tasks), minutes, "%d minutes", minutes)
		for _, task := range tasks {
			assert.GreaterOrEqual(t, task.Duration, minTaskDuration, "%d minutes", minutes)
		}
	}
}

func TestFitTasks(t *testing.T) {
	tasks := []Task{{TaskReading, 15}, {TaskFlashcards, 2}, {TaskQuiz, 15}}
	fitTasks(tasks, 20)
	assert.Equal(t, []Task{{TaskReading, 9}, {TaskFlashcards, 5}, {TaskQuiz, 9}}, tasks)
}
