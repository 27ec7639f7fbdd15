package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/transport"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// Resource describes one REST collection following the backend convention:
//
//	GET    /api/{Name}/GetAll
//	GET    /api/{Name}/get/{id}
//	POST   CreatePath (default /api/{Name}/create)
//	PUT    /api/{Name}/update/{id}
//	DELETE /api/{Name}/delete/{id}
type Resource[T any] struct {
	Name       string
	CreatePath string
	// ForeignKeys extracts the value of each foreign key field by name.
	ForeignKeys map[string]func(T) int64
	// FilterEndpoints holds server-side filtered endpoints per foreign key,
	// as fmt patterns taking the key value (e.g. "/api/Notification/GetNotificationsByAccount/%d").
	FilterEndpoints map[string]string
}

func (r Resource[T]) listPath() string        { return "/api/" + r.Name + "/GetAll" }
func (r Resource[T]) getPath(id int64) string { return "/api/" + r.Name + "/get/" + idString(id) }
func (r Resource[T]) updatePath(id int64) string {
	return "/api/" + r.Name + "/update/" + idString(id)
}
func (r Resource[T]) deletePath(id int64) string {
	return "/api/" + r.Name + "/delete/" + idString(id)
}
func (r Resource[T]) createPath() string {
	if r.CreatePath != "" {
		return r.CreatePath
	}
	return "/api/" + r.Name + "/create"
}

// Filter selects rows of a collection. With Key set, rows whose foreign key
// equals Value match; otherwise Match decides. When both are set, a row must
// satisfy both.
type Filter[T any] struct {
	Key   string
	Value int64
	Match func(T) bool
}

// ResourceRepository is CRUD over one REST collection.
type ResourceRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	// Create and Update return nil (and no error) when the server acknowledges
	// without echoing the record.
	Create(ctx context.Context, payload any) (*T, error)
	Update(ctx context.Context, id int64, payload any) (*T, error)
	Delete(ctx context.Context, id int64) error
	FindBy(ctx context.Context, filter Filter[T]) ([]T, error)
	GetByForeignKey(ctx context.Context, key string, value int64) ([]T, error)
}

type restRepository[T any] struct {
	sender   transport.Sender
	resource Resource[T]
	reads    transport.RetryPolicy
}

// NewResourceRepository creates a repository for res. Reads go through the
// given retry policy; writes are sent once.
func NewResourceRepository[T any](sender transport.Sender, res Resource[T], reads transport.RetryPolicy) ResourceRepository[T] {
	return &restRepository[T]{sender: sender, resource: res, reads: reads}
}

func (r *restRepository[T]) List(ctx context.Context) ([]T, error) {
	return transport.Retry(ctx, r.reads, func(ctx context.Context) ([]T, error) {
		return r.fetchList(ctx, r.resource.listPath())
	})
}

func (r *restRepository[T]) fetchList(ctx context.Context, path string) ([]T, error) {
	resp, err := r.sender.Send(ctx, transport.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(r.resource.Name, ""); err != nil {
		return nil, err
	}
	return decodeList[T](resp.Body)
}

func (r *restRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	return transport.Retry(ctx, r.reads, func(ctx context.Context) (*T, error) {
		resp, err := r.sender.Send(ctx, transport.Request{Method: http.MethodGet, Path: r.resource.getPath(id)})
		if err != nil {
			return nil, err
		}
		if err := resp.Err(r.resource.Name, idString(id)); err != nil {
			return nil, err
		}
		item, err := decodeItem[T](resp.Body)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, notFound(r.resource.Name, id)
		}
		return item, nil
	})
}

func (r *restRepository[T]) Create(ctx context.Context, payload any) (*T, error) {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   r.resource.createPath(),
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(r.resource.Name, ""); err != nil {
		return nil, err
	}
	return decodeItem[T](resp.Body)
}

func (r *restRepository[T]) Update(ctx context.Context, id int64, payload any) (*T, error) {
	resp, err := r.sender.Send(ctx, transport.Request{
		Method:      http.MethodPut,
		Path:        r.resource.updatePath(id),
		Body:        payload,
		ContentType: transport.ContentTypeJSONPatch,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(r.resource.Name, idString(id)); err != nil {
		return nil, err
	}
	return decodeItem[T](resp.Body)
}

func (r *restRepository[T]) Delete(ctx context.Context, id int64) error {
	resp, err := r.sender.Send(ctx, transport.Request{Method: http.MethodDelete, Path: r.resource.deletePath(id)})
	if err != nil {
		return err
	}
	return resp.Err(r.resource.Name, idString(id))
}

func (r *restRepository[T]) FindBy(ctx context.Context, filter Filter[T]) ([]T, error) {
	var keyOf func(T) int64
	if filter.Key != "" {
		var ok bool
		keyOf, ok = r.resource.ForeignKeys[filter.Key]
		if !ok {
			return nil, fmt.Errorf("%s has no foreign key %q", r.resource.Name, filter.Key)
		}
	}

	if pattern, ok := r.resource.FilterEndpoints[filter.Key]; ok && filter.Key != "" {
		items, err := transport.Retry(ctx, r.reads, func(ctx context.Context) ([]T, error) {
			items, err := r.fetchList(ctx, fmt.Sprintf(pattern, filter.Value))
			if apperrors.IsNotFound(err) {
				return []T{}, nil
			}
			return items, err
		})
		if err != nil {
			return nil, err
		}
		if filter.Match == nil {
			return items, nil
		}
		return lo.Filter(items, func(item T, _ int) bool { return filter.Match(item) }), nil
	}

	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(items, func(item T, _ int) bool {
		if keyOf != nil && keyOf(item) != filter.Value {
			return false
		}
		return filter.Match == nil || filter.Match(item)
	}), nil
}

func (r *restRepository[T]) GetByForeignKey(ctx context.Context, key string, value int64) ([]T, error) {
	return r.FindBy(ctx, Filter[T]{Key: key, Value: value})
}

// decodeList accepts a bare array or the wrapped forms {"$values": [...]} and {"data": [...]}.
func decodeList[T any](body []byte) ([]T, error) {
	raw := gjson.ParseBytes(body)
	if raw.IsObject() {
		raw.ForEach(func(key, value gjson.Result) bool {
			if (key.String() == "$values" || key.String() == "data") && value.IsArray() {
				raw = value
				return false
			}
			return true
		})
	}
	if !raw.IsArray() {
		if raw.Type == gjson.Null || len(body) == 0 {
			return []T{}, nil
		}
		return nil, fmt.Errorf("expected a JSON array, got %.60s", raw.Raw)
	}
	items := make([]T, 0, len(raw.Array()))
	if err := json.Unmarshal([]byte(raw.Raw), &items); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return items, nil
}

// decodeItem returns nil when the body is not a JSON object (plain
// acknowledgements such as "Updated successfully").
func decodeItem[T any](body []byte) (*T, error) {
	raw := gjson.ParseBytes(body)
	if !raw.IsObject() {
		return nil, nil
	}
	var item T
	if err := json.Unmarshal([]byte(raw.Raw), &item); err != nil {
		return nil, fmt.Errorf("decoding item: %w", err)
	}
	return &item, nil
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
