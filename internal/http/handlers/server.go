package handlers

import (
	"github.com/rogerio-castellano/order-tracker/internal/catalog"
	"github.com/rogerio-castellano/order-tracker/internal/orders"
	"github.com/rs/zerolog"
)

// Handler serves the REST API on top of the catalog and order services.
type Handler struct {
	catalog *catalog.Service
	orders  *orders.Service
	log     zerolog.Logger
}

func NewHandler(catalog *catalog.Service, orders *orders.Service, log zerolog.Logger) *Handler {
	return &Handler{catalog: catalog, orders: orders, log: log}
}
