// Package state типизированное хранилище состояния клиента с чистыми редьюсерами
package state

import (
	"pettrack/internal/domain/pet"
	"pettrack/internal/domain/user"
)

// Domain раздел состояния, который целиком заменяется снимком
type Domain string

const (
	DomainUser Domain = "user"
	DomainPets Domain = "pets"
)

type UserState struct {
	LoggedIn     bool
	User         *user.User
	Token        string
	RefreshToken string
}

// PetsState снимок питомцев. Loaded различает "еще не загружали" и "пустой список".
type PetsState struct {
	Data   []pet.Pet
	Loaded bool
}

type State struct {
	User UserState
	Pets PetsState
}

// Initial возвращает начальное состояние
func Initial() State {
	return State{}
}

// Action действие, которое меняет один или несколько разделов
type Action interface {
	Domains() []Domain
}

// Login вход выполнен, сохраняем пользователя и токены
type Login struct {
	Session user.Session
}

// SignedUp регистрация прошла и сервис сразу выдал сессию
type SignedUp struct {
	Session user.Session
}

type Logout struct{}

// UpdateUserDetails частичное обновление данных пользователя
type UpdateUserDetails struct {
	Email *string
}

// SetPets полная замена снимка питомцев
type SetPets struct {
	Pets []pet.Pet
}

type ClearPets struct{}

// RemovePet удаляет из снимка питомца с указанным id
type RemovePet struct {
	ID string
}

func (Login) Domains() []Domain             { return []Domain{DomainUser} }
func (SignedUp) Domains() []Domain          { return []Domain{DomainUser} }
func (Logout) Domains() []Domain            { return []Domain{DomainUser} }
func (UpdateUserDetails) Domains() []Domain { return []Domain{DomainUser} }
func (SetPets) Domains() []Domain           { return []Domain{DomainPets} }
func (ClearPets) Domains() []Domain         { return []Domain{DomainPets} }
func (RemovePet) Domains() []Domain         { return []Domain{DomainPets} }
