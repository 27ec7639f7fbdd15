package repositories

import (
	"context"
	"net/http"

	"homecare_client/internal/models"
	"homecare_client/internal/transport"
)

// CustomizeTaskRepository handles tasks and nurse assignment.
type CustomizeTaskRepository interface {
	ResourceRepository[models.CustomizeTask]
	AssignNursing(ctx context.Context, taskID, nursingID int64) error
}

type customizeTaskRepository struct {
	ResourceRepository[models.CustomizeTask]
	sender transport.Sender
}

// NewCustomizeTaskRepository creates a new instance of CustomizeTaskRepository.
func NewCustomizeTaskRepository(sender transport.Sender, reads transport.RetryPolicy) CustomizeTaskRepository {
	return &customizeTaskRepository{
		ResourceRepository: NewResourceRepository(sender, CustomizeTaskResource, reads),
		sender:             sender,
	}
}

// AssignNursing issues PUT /api/CustomizeTask/UpdateNursing/{taskId}/{nursingId}.
// Concurrent assignments of the same task are arbitrated by the backend.
func (r *customizeTaskRepository) AssignNursing(ctx context.Context, taskID, nursingID int64) error {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method: http.MethodPut,
		Path:   "/api/CustomizeTask/UpdateNursing/" + idString(taskID) + "/" + idString(nursingID),
	})
	if err != nil {
		return err
	}
	return resp.Err(CustomizeTaskResource.Name, idString(taskID))
}
