package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/facturacion-api/internal/application/dto"
	"github.com/tu-usuario/facturacion-api/internal/domain"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/domain/repository"
)

// CustomerUseCase casos de uso de clientes. Las respuestas cargan las facturas
// y cotizaciones del cliente; borrar un cliente arrastra sus documentos.
type CustomerUseCase struct {
	repo       repository.CustomerRepository
	invoices   repository.DocumentRepository
	quotations repository.DocumentRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	invoices repository.DocumentRepository,
	quotations repository.DocumentRepository,
) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, invoices: invoices, quotations: quotations}
}

// Create crea un cliente. El email es único: duplicado → domain.ErrDuplicate.
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: name y email son requeridos", domain.ErrInvalidInput)
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Company:   in.Company,
		TaxNumber: in.TaxNumber,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista todos los clientes con sus documentos cargados.
func (uc *CustomerUseCase) List() ([]*dto.CustomerResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		resp, err := uc.withDocuments(c)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Get devuelve un cliente con sus documentos.
func (uc *CustomerUseCase) Get(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return uc.withDocuments(customer)
}

// Update aplica los campos presentes del patch.
func (uc *CustomerUseCase) Update(id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
		customer.Name = *in.Name
	}
	if in.Email != nil {
		if *in.Email == "" {
			return nil, fmt.Errorf("%w: email no puede quedar vacío", domain.ErrInvalidInput)
		}
		customer.Email = *in.Email
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	if in.Company != nil {
		customer.Company = *in.Company
	}
	if in.TaxNumber != nil {
		customer.TaxNumber = *in.TaxNumber
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina el cliente; la base de datos elimina en cascada facturas,
// cotizaciones y sus líneas.
func (uc *CustomerUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// withDocuments mapea el cliente cargando sus facturas y cotizaciones.
func (uc *CustomerUseCase) withDocuments(c *entity.Customer) (*dto.CustomerResponse, error) {
	resp := toCustomerResponse(c)
	invoices, err := uc.attachItems(uc.invoices, c.ID)
	if err != nil {
		return nil, err
	}
	quotations, err := uc.attachItems(uc.quotations, c.ID)
	if err != nil {
		return nil, err
	}
	resp.Invoices = invoices
	resp.Quotations = quotations
	return resp, nil
}

func (uc *CustomerUseCase) attachItems(repo repository.DocumentRepository, customerID string) ([]*dto.DocumentResponse, error) {
	docs, err := repo.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		doc.Items, err = repo.GetItems(doc.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toDocumentResponse(doc))
	}
	return out, nil
}
