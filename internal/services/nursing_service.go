package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"homecare_client/internal/models"
	"homecare_client/internal/repositories"

	"github.com/rs/zerolog/log"
)

var (
	ErrNursingProfileNotFound = errors.New("nursing specialist profile not found")
	ErrTaskNotFound           = errors.New("task not found")
)

type NursingService interface {
	// AssignedTasks lists the tasks of the nurse behind accountID, by booking then task order.
	AssignedTasks(ctx context.Context, accountID int64) ([]models.CustomizeTask, error)
	AssignNursing(ctx context.Context, taskID, nursingID int64) error
}

type nursingService struct {
	specialists repositories.ResourceRepository[models.NursingSpecialist]
	tasks       repositories.CustomizeTaskRepository
}

// NewNursingService creates a new instance of NursingService.
func NewNursingService(
	specialists repositories.ResourceRepository[models.NursingSpecialist],
	tasks repositories.CustomizeTaskRepository,
) NursingService {
	return &nursingService{specialists: specialists, tasks: tasks}
}

func (s *nursingService) AssignedTasks(ctx context.Context, accountID int64) ([]models.CustomizeTask, error) {
	profiles, err := s.specialists.GetByForeignKey(ctx, "accountID", accountID)
	if err != nil {
		return nil, fmt.Errorf("loading nursing profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: account %d", ErrNursingProfileNotFound, accountID)
	}

	tasks, err := s.tasks.GetByForeignKey(ctx, "nursingID", profiles[0].NursingID)
	if err != nil {
		return nil, fmt.Errorf("loading assigned tasks: %w", err)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].BookingID != tasks[j].BookingID {
			return tasks[i].BookingID < tasks[j].BookingID
		}
		return tasks[i].TaskOrder < tasks[j].TaskOrder
	})
	return tasks, nil
}

func (s *nursingService) AssignNursing(ctx context.Context, taskID, nursingID int64) error {
	if _, err := s.specialists.GetByID(ctx, nursingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrNursingProfileNotFound, nursingID)
		}
		return err
	}
	if err := s.tasks.AssignNursing(ctx, taskID, nursingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: ID %d", ErrTaskNotFound, taskID)
		}
		return err
	}
	log.Info().Int64("task_id", taskID).Int64("nursing_id", nursingID).Msg("Nurse assigned to task")
	return nil
}
