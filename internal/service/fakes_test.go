package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
)

type recordState struct {
	invoices  map[uuid.UUID]model.Invoice
	files     map[uuid.UUID]model.File
	services  map[uuid.UUID]model.Service
	billTos   map[uuid.UUID]model.BillTo
	customers map[uuid.UUID]model.Customer
	globals   map[string]model.GlobalConfig
}

func newRecordState() *recordState {
	return &recordState{
		invoices:  make(map[uuid.UUID]model.Invoice),
		files:     make(map[uuid.UUID]model.File),
		services:  make(map[uuid.UUID]model.Service),
		billTos:   make(map[uuid.UUID]model.BillTo),
		customers: make(map[uuid.UUID]model.Customer),
		globals:   make(map[string]model.GlobalConfig),
	}
}

type stubInvoices struct{ state *recordState }

func (s *stubInvoices) Get(_ context.Context, id, userID uuid.UUID) (*model.Invoice, error) {
	invoice, ok := s.state.invoices[id]
	if !ok || invoice.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &invoice, nil
}

func (s *stubInvoices) List(_ context.Context, userID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	for _, invoice := range s.state.invoices {
		if invoice.UserID == userID {
			invoices = append(invoices, invoice)
		}
	}
	return invoices, nil
}

func (s *stubInvoices) ListByCustomer(_ context.Context, customerID, userID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	for _, invoice := range s.state.invoices {
		if invoice.CustomerID == customerID && invoice.UserID == userID {
			invoices = append(invoices, invoice)
		}
	}
	return invoices, nil
}

func (s *stubInvoices) ListByCustomerAndDateRange(_ context.Context, customerID, userID uuid.UUID, start, end time.Time) ([]model.Invoice, error) {
	var invoices []model.Invoice
	for _, invoice := range s.state.invoices {
		if invoice.CustomerID != customerID || invoice.UserID != userID {
			continue
		}
		if invoice.CreatedAt.Before(start) || invoice.CreatedAt.After(end) {
			continue
		}
		invoices = append(invoices, invoice)
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.Before(invoices[j].CreatedAt)
	})
	return invoices, nil
}

func (s *stubInvoices) Patch(_ context.Context, id, userID uuid.UUID, updates map[string]interface{}) error {
	invoice, ok := s.state.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["reason"]; ok {
		invoice.Reason = v.(string)
	}
	if v, ok := updates["with_taxes"]; ok {
		invoice.WithTaxes = v.(bool)
	}
	if v, ok := updates["with_tables"]; ok {
		invoice.WithTables = v.(bool)
	}
	s.state.invoices[id] = invoice
	return nil
}

func (s *stubInvoices) Delete(_ context.Context, id, userID uuid.UUID) error {
	delete(s.state.invoices, id)
	return nil
}

type stubFiles struct{ state *recordState }

func (s *stubFiles) Get(_ context.Context, id, userID uuid.UUID) (*model.File, error) {
	file, ok := s.state.files[id]
	if !ok || file.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &file, nil
}

func (s *stubFiles) List(_ context.Context, userID uuid.UUID) ([]model.File, error) {
	var files []model.File
	for _, file := range s.state.files {
		if file.UserID == userID {
			files = append(files, file)
		}
	}
	return files, nil
}

func (s *stubFiles) ListByInvoice(_ context.Context, invoiceID, userID uuid.UUID) ([]model.File, error) {
	var files []model.File
	for _, file := range s.state.files {
		if file.InvoiceID != nil && *file.InvoiceID == invoiceID && file.UserID == userID {
			files = append(files, file)
		}
	}
	return files, nil
}

func (s *stubFiles) Delete(_ context.Context, id, userID uuid.UUID) error {
	delete(s.state.files, id)
	return nil
}

type stubServices struct{ state *recordState }

func (s *stubServices) Create(_ context.Context, service *model.Service) error {
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	s.state.services[service.ID] = *service
	return nil
}

func (s *stubServices) Get(_ context.Context, id, userID uuid.UUID) (*model.Service, error) {
	service, ok := s.state.services[id]
	if !ok || service.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &service, nil
}

func (s *stubServices) Patch(_ context.Context, id, userID uuid.UUID, updates map[string]interface{}) error {
	service, ok := s.state.services[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["title"]; ok {
		service.Title = v.(string)
	}
	if v, ok := updates["amount"]; ok {
		service.Amount = v.(float64)
	}
	if v, ok := updates["currency"]; ok {
		service.Currency = v.(string)
	}
	if v, ok := updates["hours"]; ok {
		service.Hours = v.(float64)
	}
	if v, ok := updates["price_unit"]; ok {
		service.PriceUnit = v.(float64)
	}
	s.state.services[id] = service
	return nil
}

func (s *stubServices) ListByFile(_ context.Context, fileID, userID uuid.UUID) ([]model.Service, error) {
	var services []model.Service
	for _, service := range s.state.services {
		if service.FileID == fileID && service.UserID == userID {
			services = append(services, service)
		}
	}
	return services, nil
}

func (s *stubServices) DeleteByFile(_ context.Context, fileID, userID uuid.UUID) error {
	for id, service := range s.state.services {
		if service.FileID == fileID {
			delete(s.state.services, id)
		}
	}
	return nil
}

func (s *stubServices) Delete(_ context.Context, id, userID uuid.UUID) error {
	delete(s.state.services, id)
	return nil
}

type stubBillTos struct{ state *recordState }

func (s *stubBillTos) Create(_ context.Context, billTo *model.BillTo) error {
	if billTo.ID == uuid.Nil {
		billTo.ID = uuid.New()
	}
	s.state.billTos[billTo.ID] = *billTo
	return nil
}

func (s *stubBillTos) Get(_ context.Context, id, userID uuid.UUID) (*model.BillTo, error) {
	billTo, ok := s.state.billTos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &billTo, nil
}

func (s *stubBillTos) List(_ context.Context, userID uuid.UUID) ([]model.BillTo, error) {
	var billTos []model.BillTo
	for _, billTo := range s.state.billTos {
		billTos = append(billTos, billTo)
	}
	return billTos, nil
}

func (s *stubBillTos) Delete(_ context.Context, id, userID uuid.UUID) error {
	delete(s.state.billTos, id)
	return nil
}

type stubCustomers struct{ state *recordState }

func (s *stubCustomers) Create(_ context.Context, customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.state.customers[customer.ID] = *customer
	return nil
}

func (s *stubCustomers) Get(_ context.Context, id, userID uuid.UUID) (*model.Customer, error) {
	customer, ok := s.state.customers[id]
	if !ok || customer.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &customer, nil
}

func (s *stubCustomers) List(_ context.Context, userID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	for _, customer := range s.state.customers {
		if customer.UserID == userID {
			customers = append(customers, customer)
		}
	}
	return customers, nil
}

func (s *stubCustomers) Patch(_ context.Context, id, userID uuid.UUID, name string) error {
	customer, ok := s.state.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	customer.Name = name
	s.state.customers[id] = customer
	return nil
}

func (s *stubCustomers) Delete(_ context.Context, id, userID uuid.UUID) error {
	delete(s.state.customers, id)
	return nil
}

type stubGlobals struct{ state *recordState }

func (s *stubGlobals) List(_ context.Context, userID uuid.UUID) ([]model.GlobalConfig, error) {
	var globals []model.GlobalConfig
	for _, global := range s.state.globals {
		globals = append(globals, global)
	}
	return globals, nil
}

func (s *stubGlobals) Upsert(_ context.Context, global *model.GlobalConfig) error {
	if existing, ok := s.state.globals[global.Name]; ok {
		global.ID = existing.ID
	} else if global.ID == uuid.Nil {
		global.ID = uuid.New()
	}
	s.state.globals[global.Name] = *global
	return nil
}
