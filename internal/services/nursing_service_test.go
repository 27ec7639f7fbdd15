package services

import (
	"testing"

	"homecare_client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestAssignedTasks(t *testing.T) {
	env := newTestEnv(t)
	env.api.Seed("nursingspecialists",
		models.NursingSpecialist{NursingID: 3, AccountID: 30, Major: "nurse"},
		models.NursingSpecialist{NursingID: 4, AccountID: 40, Major: "consultant"},
	)
	env.api.Seed("CustomizeTask",
		models.CustomizeTask{CustomizeTaskID: 1, BookingID: 2, TaskOrder: 2, NursingID: int64Ptr(3)},
		models.CustomizeTask{CustomizeTaskID: 2, BookingID: 1, TaskOrder: 1, NursingID: int64Ptr(3)},
		models.CustomizeTask{CustomizeTaskID: 3, BookingID: 2, TaskOrder: 1, NursingID: int64Ptr(3)},
		models.CustomizeTask{CustomizeTaskID: 4, BookingID: 1, TaskOrder: 2, NursingID: int64Ptr(4)},
		models.CustomizeTask{CustomizeTaskID: 5, BookingID: 1, TaskOrder: 3},
	)
	svc := NewNursingService(env.repos.NursingSpecialists, env.repos.CustomizeTasks)

	tasks, err := svc.AssignedTasks(ctxWithToken(), 30)
	require.NoError(t, err)
	ids := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.CustomizeTaskID)
	}
	assert.Equal(t, []int64{2, 3, 1}, ids)

	_, err = svc.AssignedTasks(ctxWithToken(), 99)
	assert.ErrorIs(t, err, ErrNursingProfileNotFound)
}

func TestAssignNursing(t *testing.T) {
	env := newTestEnv(t)
	env.api.Seed("nursingspecialists", models.NursingSpecialist{NursingID: 3, AccountID: 30})
	env.api.Seed("CustomizeTask", models.CustomizeTask{CustomizeTaskID: 5, BookingID: 1})
	svc := NewNursingService(env.repos.NursingSpecialists, env.repos.CustomizeTasks)

	require.NoError(t, svc.AssignNursing(ctxWithToken(), 5, 3))
	assert.Equal(t, 3.0, env.api.Row("CustomizeTask", 5)["nursingID"])

	assert.ErrorIs(t, svc.AssignNursing(ctxWithToken(), 6, 3), ErrTaskNotFound)
	assert.ErrorIs(t, svc.AssignNursing(ctxWithToken(), 5, 8), ErrNursingProfileNotFound)
}
