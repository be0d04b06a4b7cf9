package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

// MaxSampleRounds bounds how many times the source is asked per Sample call.
const MaxSampleRounds = 3

// ProblemSampler collects a deduplicated set of random problems from a
// source that may under-deliver or repeat itself.
type ProblemSampler struct {
	source ProblemSource
}

func NewProblemSampler(source ProblemSource) *ProblemSampler {
	return &ProblemSampler{source: source}
}

// Sample returns at most count distinct problems in first-seen order. A
// short result is not an error.
func (s *ProblemSampler) Sample(ctx context.Context, categories []models.Category, difficulty models.Difficulty, count int) ([]models.Problem, error) {
	if count <= 0 {
		return []models.Problem{}, nil
	}

	filter := models.ProblemFilter{Categories: categories, Difficulty: difficulty}
	seen := make(map[string]struct{}, count)
	result := make([]models.Problem, 0, count)

	for round := 0; round < MaxSampleRounds && len(result) < count; round++ {
		batch, err := s.source.FindRandom(ctx, filter, count)
		if err != nil {
			return nil, fmt.Errorf("sample problems: %w", err)
		}
		for _, p := range batch {
			if len(result) == count {
				break
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			result = append(result, p)
		}
	}

	return result, nil
}
