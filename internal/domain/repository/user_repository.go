package repository

import "github.com/tu-usuario/facturacion-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (auth).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
}
