package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// CreateLotRequest body para POST /api/lots: crea el lote y su RECEIPT inicial.
type CreateLotRequest struct {
	PartID          string           `json:"part_id"`
	BatchCode       string           `json:"batch_code"`
	InitialQuantity decimal.Decimal  `json:"initial_quantity"`
	InitialLocation string           `json:"initial_location"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
	ManufacturedAt  *time.Time       `json:"manufactured_at,omitempty"`
	ExpiresAt       *time.Time       `json:"expires_at,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	DocumentType    string           `json:"document_type,omitempty"`
	DocumentRef     string           `json:"document_ref,omitempty"`
}

// UpdateLotRequest body para PATCH /api/lots/:id. Solo metadatos: la cantidad
// inicial no tiene campo aquí y por lo tanto no es editable por la API.
type UpdateLotRequest struct {
	State          *string          `json:"state,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	ManufacturedAt *time.Time       `json:"manufactured_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

// Metadata convierte el request al tipo del puerto de persistencia.
func (r UpdateLotRequest) Metadata() repository.LotMetadata {
	return repository.LotMetadata{
		State:          r.State,
		UnitCost:       r.UnitCost,
		ManufacturedAt: r.ManufacturedAt,
		ExpiresAt:      r.ExpiresAt,
		Notes:          r.Notes,
	}
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	LotID        string          `json:"lot_id"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	Quantity     decimal.Decimal `json:"quantity"`
	DocumentType string          `json:"document_type,omitempty"`
	DocumentRef  string          `json:"document_ref,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// StockOperationRequest body para consumos, bajas y ajustes. En consumos y
// bajas la cantidad es positiva; en ajustes lleva el signo de la corrección.
type StockOperationRequest struct {
	LotID        string          `json:"lot_id"`
	Location     string          `json:"location"`
	Quantity     decimal.Decimal `json:"quantity"`
	DocumentType string          `json:"document_type,omitempty"`
	DocumentRef  string          `json:"document_ref,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// LotResponse representación HTTP de un lote.
type LotResponse struct {
	ID              string          `json:"id"`
	PartID          string          `json:"part_id"`
	BatchCode       string          `json:"batch_code"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	InitialLocation string          `json:"initial_location"`
	State           string          `json:"state"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	ManufacturedAt  *time.Time      `json:"manufactured_at,omitempty"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	CreatedBy       string          `json:"created_by,omitempty"`
}

// NewLotResponse mapea la entidad al DTO.
func NewLotResponse(lot *entity.Lot) LotResponse {
	return LotResponse{
		ID:              lot.ID,
		PartID:          lot.PartID,
		BatchCode:       lot.BatchCode,
		InitialQuantity: lot.InitialQuantity,
		InitialLocation: lot.InitialLocation,
		State:           lot.State,
		UnitCost:        lot.UnitCost,
		ManufacturedAt:  lot.ManufacturedAt,
		ExpiresAt:       lot.ExpiresAt,
		Notes:           lot.Notes,
		CreatedAt:       lot.CreatedAt,
		CreatedBy:       lot.CreatedBy,
	}
}

// MovementResponse representación HTTP de una entrada del ledger.
type MovementResponse struct {
	ID            string          `json:"id"`
	LotID         string          `json:"lot_id"`
	PartID        string          `json:"part_id"`
	BatchCode     string          `json:"batch_code"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	FromLocation  string          `json:"from_location,omitempty"`
	ToLocation    string          `json:"to_location,omitempty"`
	DocumentType  string          `json:"document_type,omitempty"`
	DocumentRef   string          `json:"document_ref,omitempty"`
	TransferGroup string          `json:"transfer_group,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// NewMovementResponse mapea la entidad al DTO.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		LotID:         m.LotID,
		PartID:        m.PartID,
		BatchCode:     m.BatchCode,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		FromLocation:  m.FromLocation,
		ToLocation:    m.ToLocation,
		DocumentType:  m.DocumentType,
		DocumentRef:   m.DocumentRef,
		TransferGroup: m.TransferGroup,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// NewMovementResponses mapea una lista de movimientos.
func NewMovementResponses(movs []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, NewMovementResponse(m))
	}
	return out
}

// LocationBalance saldo de una ubicación dentro del desglose de un lote.
type LocationBalance struct {
	Location  string          `json:"location"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BalanceResponse desglose de saldos de un lote más el total.
type BalanceResponse struct {
	LotID     string            `json:"lot_id"`
	Locations []LocationBalance `json:"locations"`
	Total     decimal.Decimal   `json:"total"`
}

// TransferResponse respuesta de un traslado: las dos patas y su grupo.
type TransferResponse struct {
	TransferGroup string           `json:"transfer_group"`
	Out           MovementResponse `json:"out"`
	In            MovementResponse `json:"in"`
}
