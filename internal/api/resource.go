package api

import (
	"context"
	"net/http"

	"finboard/internal/session"
)

// Resource is the uniform CRUD wrapper every feature page consumes. Each
// entity gets the same five operations against its remote endpoint; error
// interpretation is the shared taxonomy in errors.go.
type Resource[T any] struct {
	client *Client
	path   string
}

func NewResource[T any](client *Client, path string) Resource[T] {
	return Resource[T]{client: client, path: path}
}

func (r Resource[T]) List(ctx context.Context, sess *session.Session) ([]T, error) {
	var out []T

	if err := r.client.Do(ctx, sess, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (r Resource[T]) Get(ctx context.Context, sess *session.Session, id string) (T, error) {
	var out T

	err := r.client.Do(ctx, sess, http.MethodGet, r.path+"/"+id, nil, &out)

	return out, err
}

func (r Resource[T]) Create(ctx context.Context, sess *session.Session, values T) (T, error) {
	var out T

	err := r.client.Do(ctx, sess, http.MethodPost, r.path, values, &out)

	return out, err
}

func (r Resource[T]) Update(ctx context.Context, sess *session.Session, id string, values T) error {
	return r.client.Do(ctx, sess, http.MethodPut, r.path+"/"+id, values, nil)
}

func (r Resource[T]) Delete(ctx context.Context, sess *session.Session, id string) error {
	return r.client.Do(ctx, sess, http.MethodDelete, r.path+"/"+id, nil, nil)
}

// Finance bundles every remote resource behind one dependency for the web
// layer.
type Finance struct {
	Client *Client

	Startups   Resource[Startup]
	Customers  Resource[Customer]
	Invoices   Resource[Invoice]
	Items      Resource[Item]
	Payments   Resource[Payment]
	Projects   Resource[Project]
	Proposals  Resource[BudgetProposal]
	Categories Resource[Category]
	Expenses   Resource[Expense]
}

func NewFinance(client *Client) *Finance {
	return &Finance{
		Client: client,

		Startups:   NewResource[Startup](client, "/startup"),
		Customers:  NewResource[Customer](client, "/customer"),
		Invoices:   NewResource[Invoice](client, "/invoice"),
		Items:      NewResource[Item](client, "/item"),
		Payments:   NewResource[Payment](client, "/payment"),
		Projects:   NewResource[Project](client, "/project"),
		Proposals:  NewResource[BudgetProposal](client, "/budget-proposal"),
		Categories: NewResource[Category](client, "/category"),
		Expenses:   NewResource[Expense](client, "/expenses"),
	}
}
