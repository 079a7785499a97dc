package http

import (
	"net/http"

	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/handlers"
	"branchdesk-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Items    *handlers.ItemHandler
	Parties  *handlers.PartyHandler
	Enquiry  *handlers.EnquiryHandler
	Orders   *handlers.OrderHandler
	Returns  *handlers.ReturnHandler
	Payments *handlers.PaymentHandler
	Health   *handlers.HealthHandler
}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	gate := func(handler http.HandlerFunc, perms ...string) http.Handler {
		return authMiddleware.RequireAny(perms...)(handler)
	}

	api.HandleFunc("/logout", h.Auth.Logout).Methods("POST")

	// Items
	api.Handle("/items", gate(h.Items.ListItems, auth.PermItemsRead)).Methods("GET")
	api.Handle("/items", gate(h.Items.CreateItem, auth.PermItemsWrite)).Methods("POST")
	api.Handle("/items/low-stock", gate(h.Items.LowStock, auth.PermItemsRead)).Methods("GET")
	api.Handle("/items/{id}", gate(h.Items.GetItem, auth.PermItemsRead)).Methods("GET")
	api.Handle("/items/{id}", gate(h.Items.UpdateItem, auth.PermItemsWrite)).Methods("PUT")
	api.Handle("/items/{id}", gate(h.Items.DeleteItem, auth.PermItemsWrite)).Methods("DELETE")
	api.Handle("/items/{id}/add-stock", gate(h.Items.AddStock, auth.PermStockAdjust)).Methods("POST")
	api.Handle("/items/{id}/loss", gate(h.Items.RecordLoss, auth.PermStockAdjust)).Methods("POST")
	api.Handle("/items/{id}/stock-logs", gate(h.Items.StockLogs, auth.PermItemsRead, auth.PermStockAdjust)).Methods("GET")

	// Parties
	api.Handle("/parties", gate(h.Parties.ListParties, auth.PermPartiesRead)).Methods("GET")
	api.Handle("/parties", gate(h.Parties.CreateParty, auth.PermPartiesWrite)).Methods("POST")
	api.Handle("/parties/{id}", gate(h.Parties.GetParty, auth.PermPartiesRead)).Methods("GET")
	api.Handle("/parties/{id}", gate(h.Parties.UpdateParty, auth.PermPartiesWrite)).Methods("PUT")
	api.Handle("/parties/{id}", gate(h.Parties.DeleteParty, auth.PermPartiesWrite)).Methods("DELETE")

	// Enquiries
	api.Handle("/enquiries", gate(h.Enquiry.ListEnquiries, auth.PermEnquiriesRead)).Methods("GET")
	api.Handle("/enquiries", gate(h.Enquiry.CreateEnquiry, auth.PermEnquiriesWrite)).Methods("POST")
	api.Handle("/enquiries/{id}", gate(h.Enquiry.GetEnquiry, auth.PermEnquiriesRead)).Methods("GET")
	api.Handle("/enquiries/{id}", gate(h.Enquiry.UpdateEnquiry, auth.PermEnquiriesWrite)).Methods("PUT")
	api.Handle("/enquiries/{id}", gate(h.Enquiry.DeleteEnquiry, auth.PermEnquiriesWrite)).Methods("DELETE")
	api.Handle("/enquiries/{id}/confirm", gate(h.Enquiry.ConfirmEnquiry, auth.PermOrdersWrite)).Methods("POST")

	// Orders
	api.Handle("/orders", gate(h.Orders.ListOrders, auth.PermOrdersRead)).Methods("GET")
	api.Handle("/orders/{id}", gate(h.Orders.GetOrder, auth.PermOrdersRead)).Methods("GET")
	api.Handle("/orders/{id}", gate(h.Orders.DeleteOrder, auth.PermOrdersWrite)).Methods("DELETE")
	api.Handle("/orders/{id}/dispatch", gate(h.Orders.DispatchOrder, auth.PermOrdersWrite)).Methods("POST")
	api.Handle("/orders/{id}/challan", gate(h.Orders.Challan, auth.PermOrdersRead)).Methods("GET")

	// Returns
	api.Handle("/returns", gate(h.Returns.ListReturns, auth.PermReturnsRead)).Methods("GET")
	api.Handle("/returns", gate(h.Returns.CreateReturn, auth.PermReturnsWrite)).Methods("POST")
	api.Handle("/returns/{id}", gate(h.Returns.GetReturn, auth.PermReturnsRead)).Methods("GET")
	api.Handle("/returns/{id}", gate(h.Returns.UpdateReturn, auth.PermReturnsWrite)).Methods("PUT")
	api.Handle("/returns/{id}", gate(h.Returns.DeleteReturn, auth.PermReturnsWrite)).Methods("DELETE")

	// Payments are owner scoped; the permission only opens the module
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(authMiddleware.RequireAny(auth.PermPaymentsManage))
	payments.HandleFunc("", h.Payments.ListPayments).Methods("GET")
	payments.HandleFunc("", h.Payments.CreatePayment).Methods("POST")
	payments.HandleFunc("/merge", h.Payments.Merge).Methods("POST")
	payments.HandleFunc("/import", h.Payments.Import).Methods("POST")
	payments.HandleFunc("/{id}", h.Payments.GetPayment).Methods("GET")
	payments.HandleFunc("/{id}", h.Payments.UpdatePayment).Methods("PUT")
	payments.HandleFunc("/{id}", h.Payments.DeletePayment).Methods("DELETE")
	payments.HandleFunc("/{id}/unmerge", h.Payments.Unmerge).Methods("POST")
	payments.HandleFunc("/{id}/tracking", h.Payments.ListTracking).Methods("GET")
	payments.HandleFunc("/{id}/tracking", h.Payments.AddTracking).Methods("POST")
	payments.HandleFunc("/{id}/children", h.Payments.MergedChildren).Methods("GET")

	// Users
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware.RequireAny(auth.PermUsersManage))
	users.HandleFunc("", h.Users.ListUsers).Methods("GET")
	users.HandleFunc("", h.Users.CreateUser).Methods("POST")
	users.HandleFunc("/{id}", h.Users.GetUser).Methods("GET")
	users.HandleFunc("/{id}", h.Users.UpdateUser).Methods("PUT")
	users.HandleFunc("/{id}/toggle-active", h.Users.ToggleActiveStatus).Methods("PATCH")

	return r
}
