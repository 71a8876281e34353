package remote

import (
	"context"
	"net/http"
	"net/url"
)

type collection[T any, P any] struct {
	client *Client
	path   string
	label  string
}

func (x *collection[T, P]) itemPath(id string) string {
	return x.path + "/" + url.PathEscape(id)
}

func (x *collection[T, P]) List(ctx context.Context) ([]T, error) {
	var resp ListResponse[T]
	if err := x.client.do(ctx, "list "+x.label+"s", http.MethodGet, x.path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (x *collection[T, P]) Create(ctx context.Context, input P) (T, error) {
	var created T
	if err := x.client.do(ctx, "create "+x.label, http.MethodPost, x.path, input, &created); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

func (x *collection[T, P]) Update(ctx context.Context, id string, input P) (T, error) {
	var updated T
	if err := x.client.do(ctx, "update "+x.label, http.MethodPut, x.itemPath(id), input, &updated); err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

func (x *collection[T, P]) Delete(ctx context.Context, id string) error {
	return x.client.do(ctx, "delete "+x.label, http.MethodDelete, x.itemPath(id), nil, nil)
}
