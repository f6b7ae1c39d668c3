package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"finboard/internal/api"
	"finboard/internal/http/middlewares"
)

// RowView is one table row on a feature page.
type RowView struct {
	ID    string
	Cells []string
}

// resourcePage wires one remote resource to the uniform list/create/update/
// delete page flow. Every feature area shares this shape; only the column
// mapping and form parsing differ.
type resourcePage[T any] struct {
	title   string
	base    string
	res     api.Resource[T]
	log     *slog.Logger
	headers []string
	fields  []string
	row     func(T) RowView
	parse   func(c *gin.Context) (T, error)
}

func (p resourcePage[T]) register(r gin.IRouter) {
	r.GET(p.base, p.list)
	r.POST(p.base, p.create)
	r.POST(p.base+"/:id/update", p.update)
	r.POST(p.base+"/:id/delete", p.delete)
}

func (p resourcePage[T]) list(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	items, err := p.res.List(c.Request.Context(), sess)

	data := page(c, p.title)

	if err != nil {
		p.log.Warn("list fetch failed", "resource", p.base, "err", err)
		data["Flash"] = api.UserMessage(err)
	}

	rows := make([]RowView, 0, len(items))
	for _, item := range items {
		rows = append(rows, p.row(item))
	}

	data["Headers"] = p.headers
	data["Fields"] = p.fields
	data["Rows"] = rows
	data["BasePath"] = p.base

	c.HTML(http.StatusOK, "resource_list", data)
}

func (p resourcePage[T]) create(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	values, err := p.parse(c)

	if err != nil {
		SetFlash(c, err.Error())
		c.Redirect(http.StatusFound, p.base)
		return
	}

	if _, err := p.res.Create(c.Request.Context(), sess, values); err != nil {
		p.log.Warn("create failed", "resource", p.base, "err", err)
		SetFlash(c, api.UserMessage(err))
	}

	c.Redirect(http.StatusFound, p.base)
}

func (p resourcePage[T]) update(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	values, err := p.parse(c)

	if err != nil {
		SetFlash(c, err.Error())
		c.Redirect(http.StatusFound, p.base)
		return
	}

	if err := p.res.Update(c.Request.Context(), sess, c.Param("id"), values); err != nil {
		p.log.Warn("update failed", "resource", p.base, "err", err)
		SetFlash(c, api.UserMessage(err))
	}

	c.Redirect(http.StatusFound, p.base)
}

func (p resourcePage[T]) delete(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	if err := p.res.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		p.log.Warn("delete failed", "resource", p.base, "err", err)
		SetFlash(c, api.UserMessage(err))
	}

	c.Redirect(http.StatusFound, p.base)
}

type registrar interface {
	register(r gin.IRouter)
}

// RegisterResourcePages mounts the CFO feature areas. Paths here must stay in
// sync with the CFO allowed-prefix set in the role-route table.
func RegisterResourcePages(r gin.IRouter, fin *api.Finance, log *slog.Logger) {
	pages := []registrar{
		resourcePage[api.Startup]{
			title:   "Startups",
			base:    "/startups",
			res:     fin.Startups,
			log:     log,
			headers: []string{"Name", "Industry", "Description"},
			fields:  []string{"name", "industry", "description"},
			row: func(s api.Startup) RowView {
				return RowView{ID: s.ID, Cells: []string{s.Name, s.Industry, s.Description}}
			},
			parse: func(c *gin.Context) (api.Startup, error) {
				s := api.Startup{
					Name:        c.PostForm("name"),
					Industry:    c.PostForm("industry"),
					Description: c.PostForm("description"),
					Website:     c.PostForm("website"),
				}
				if s.Name == "" {
					return s, fmt.Errorf("name is required")
				}
				return s, nil
			},
		},
		resourcePage[api.Customer]{
			title:   "Customers",
			base:    "/customers",
			res:     fin.Customers,
			log:     log,
			headers: []string{"Name", "Email", "Phone"},
			fields:  []string{"name", "email", "phone"},
			row: func(v api.Customer) RowView {
				return RowView{ID: v.ID, Cells: []string{v.Name, v.Email, v.Phone}}
			},
			parse: func(c *gin.Context) (api.Customer, error) {
				v := api.Customer{
					Name:    c.PostForm("name"),
					Email:   c.PostForm("email"),
					Phone:   c.PostForm("phone"),
					Address: c.PostForm("address"),
				}
				if v.Name == "" {
					return v, fmt.Errorf("name is required")
				}
				return v, nil
			},
		},
		resourcePage[api.Invoice]{
			title:   "Invoices",
			base:    "/invoices",
			res:     fin.Invoices,
			log:     log,
			headers: []string{"Number", "Amount", "Status", "Due"},
			fields:  []string{"number", "amount", "customerId", "dueDate"},
			row: func(v api.Invoice) RowView {
				return RowView{ID: v.ID, Cells: []string{
					v.Number,
					formatAmount(v.Amount),
					v.Status,
					formatDate(v.DueDate),
				}}
			},
			parse: func(c *gin.Context) (api.Invoice, error) {
				amount, err := parseAmount(c.PostForm("amount"))
				if err != nil {
					return api.Invoice{}, err
				}
				due, err := parseDate(c.PostForm("dueDate"))
				if err != nil {
					return api.Invoice{}, err
				}
				return api.Invoice{
					Number:     c.PostForm("number"),
					Amount:     amount,
					CustomerID: c.PostForm("customerId"),
					DueDate:    due,
				}, nil
			},
		},
		resourcePage[api.Item]{
			title:   "Items",
			base:    "/items",
			res:     fin.Items,
			log:     log,
			headers: []string{"Name", "Price", "Quantity"},
			fields:  []string{"name", "price", "quantity"},
			row: func(v api.Item) RowView {
				return RowView{ID: v.ID, Cells: []string{
					v.Name,
					formatAmount(v.Price),
					strconv.Itoa(v.Quantity),
				}}
			},
			parse: func(c *gin.Context) (api.Item, error) {
				price, err := parseAmount(c.PostForm("price"))
				if err != nil {
					return api.Item{}, err
				}
				qty, _ := strconv.Atoi(c.PostForm("quantity"))
				return api.Item{
					Name:       c.PostForm("name"),
					Price:      price,
					Quantity:   qty,
					CategoryID: c.PostForm("categoryId"),
				}, nil
			},
		},
		resourcePage[api.Payment]{
			title:   "Payments",
			base:    "/payments",
			res:     fin.Payments,
			log:     log,
			headers: []string{"Invoice", "Amount", "Method", "Paid at"},
			fields:  []string{"invoiceId", "amount", "method", "paidAt"},
			row: func(v api.Payment) RowView {
				return RowView{ID: v.ID, Cells: []string{
					v.InvoiceID,
					formatAmount(v.Amount),
					v.Method,
					formatDate(v.PaidAt),
				}}
			},
			parse: func(c *gin.Context) (api.Payment, error) {
				amount, err := parseAmount(c.PostForm("amount"))
				if err != nil {
					return api.Payment{}, err
				}
				paidAt, err := parseDate(c.PostForm("paidAt"))
				if err != nil {
					return api.Payment{}, err
				}
				return api.Payment{
					InvoiceID: c.PostForm("invoiceId"),
					Amount:    amount,
					Method:    c.PostForm("method"),
					PaidAt:    paidAt,
				}, nil
			},
		},
		resourcePage[api.Project]{
			title:   "Projects",
			base:    "/projects",
			res:     fin.Projects,
			log:     log,
			headers: []string{"Name", "Budget", "Status"},
			fields:  []string{"name", "budget", "status"},
			row: func(v api.Project) RowView {
				return RowView{ID: v.ID, Cells: []string{
					v.Name,
					formatAmount(v.Budget),
					v.Status,
				}}
			},
			parse: func(c *gin.Context) (api.Project, error) {
				budget, err := parseAmount(c.PostForm("budget"))
				if err != nil {
					return api.Project{}, err
				}
				return api.Project{
					Name:   c.PostForm("name"),
					Budget: budget,
					Status: c.PostForm("status"),
				}, nil
			},
		},
		resourcePage[api.BudgetProposal]{
			title:   "Budget proposals",
			base:    "/budget-proposals",
			res:     fin.Proposals,
			log:     log,
			headers: []string{"Title", "Amount", "Status", "Submitted by"},
			fields:  []string{"title", "amount"},
			row: func(v api.BudgetProposal) RowView {
				return RowView{ID: v.ID, Cells: []string{
					v.Title,
					formatAmount(v.Amount),
					v.Status,
					v.SubmittedBy,
				}}
			},
			parse: func(c *gin.Context) (api.BudgetProposal, error) {
				amount, err := parseAmount(c.PostForm("amount"))
				if err != nil {
					return api.BudgetProposal{}, err
				}
				v := api.BudgetProposal{
					Title:  c.PostForm("title"),
					Amount: amount,
				}
				if v.Title == "" {
					return v, fmt.Errorf("title is required")
				}
				return v, nil
			},
		},
		resourcePage[api.Category]{
			title:   "Categories",
			base:    "/categories",
			res:     fin.Categories,
			log:     log,
			headers: []string{"Name"},
			fields:  []string{"name"},
			row: func(v api.Category) RowView {
				return RowView{ID: v.ID, Cells: []string{v.Name}}
			},
			parse: func(c *gin.Context) (api.Category, error) {
				v := api.Category{Name: c.PostForm("name")}
				if v.Name == "" {
					return v, fmt.Errorf("name is required")
				}
				return v, nil
			},
		},
		resourcePage[api.Expense]{
			title:   "Expenses",
			base:    "/expenses",
			res:     fin.Expenses,
			log:     log,
			headers: []string{"Description", "Amount", "Date"},
			fields:  []string{"description", "amount", "date"},
			row: func(v api.Expense) RowView {
				return RowView{ID: v.ID, Cells: []string{
					v.Description,
					formatAmount(v.Amount),
					formatDate(v.Date),
				}}
			},
			parse: func(c *gin.Context) (api.Expense, error) {
				amount, err := parseAmount(c.PostForm("amount"))
				if err != nil {
					return api.Expense{}, err
				}
				date, err := parseDate(c.PostForm("date"))
				if err != nil {
					return api.Expense{}, err
				}
				return api.Expense{
					Description: c.PostForm("description"),
					Amount:      amount,
					CategoryID:  c.PostForm("categoryId"),
					Date:        date,
				}, nil
			},
		},
	}

	for _, p := range pages {
		p.register(r)
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)

	if err != nil || v < 0 {
		return 0, fmt.Errorf("amount must be a non-negative number")
	}

	return v, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format("2006-01-02")
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse("2006-01-02", raw)

	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}

	return t, nil
}
