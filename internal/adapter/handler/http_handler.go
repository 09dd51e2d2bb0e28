package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Jonathan0148/inventoryproduct/internal/core/domain"
	"github.com/Jonathan0148/inventoryproduct/internal/core/service"
)

type HTTPHandler struct {
	inventoryService *service.InventoryService
}

// apiResponse is the envelope applied to every HTTP response.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type updateQuantityRequest struct {
	// Pointer distinguishes an absent quantity from an explicit 0.
	Quantity *int `json:"quantity"`
}

func NewHTTPHandler(inventoryService *service.InventoryService) *HTTPHandler {
	return &HTTPHandler{inventoryService: inventoryService}
}

// Router wires the inventory routes. The exact purchase path is registered
// separately so it wins over the {productId} subtree.
func (h *HTTPHandler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/inventory/purchase", h.Purchase)
	mux.HandleFunc("/api/inventory/", h.Inventory)
	return mux
}

// Inventory dispatches GET and PUT on /api/inventory/{productId}.
func (h *HTTPHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(r.URL.Path)
	if !ok {
		writeJSON(w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: "invalid product ID",
		})
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getInventory(w, r, productID)
	case http.MethodPut:
		h.updateQuantity(w, r, productID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandler) getInventory(w http.ResponseWriter, r *http.Request, productID int64) {
	data, err := h.inventoryService.GetInventory(r.Context(), productID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "inventory retrieved successfully",
		Data:    data,
	})
}

func (h *HTTPHandler) updateQuantity(w http.ResponseWriter, r *http.Request, productID int64) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if req.Quantity == nil || *req.Quantity < 0 {
		writeJSON(w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: "quantity is required and must be greater than or equal to 0",
		})
		return
	}

	record, err := h.inventoryService.UpdateQuantity(r.Context(), productID, *req.Quantity)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "inventory quantity updated successfully",
		Data:    record,
	})
}

// Purchase handles POST /api/inventory/purchase.
func (h *HTTPHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if req.ProductID <= 0 || req.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: "productId is required and quantity must be greater than 0",
		})
		return
	}

	result, err := h.inventoryService.ProcessPurchase(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "purchase processed successfully",
		Data:    result,
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrInventoryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, apiResponse{
		Success: false,
		Message: err.Error(),
	})
}

func parseProductID(path string) (int64, bool) {
	raw := strings.TrimPrefix(path, "/api/inventory/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
