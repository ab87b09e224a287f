package repository

import "github.com/tu-usuario/facturacion-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List() ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	// Delete elimina el cliente; la base de datos elimina en cascada sus
	// facturas y cotizaciones. Retorna domain.ErrNotFound si no existe.
	Delete(id string) error
}
