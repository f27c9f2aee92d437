package state

import (
	"pettrack/internal/domain/pet"
	"pettrack/internal/domain/user"
)

// Reduce применяет действие к состоянию. Входное состояние не изменяется.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case Login:
		s.User = loggedIn(act.Session)
	case SignedUp:
		s.User = loggedIn(act.Session)
	case Logout:
		s.User = UserState{}
	case UpdateUserDetails:
		if s.User.User == nil {
			return s
		}
		u := *s.User.User
		if act.Email != nil {
			u.Email = *act.Email
		}
		s.User.User = &u
	case SetPets:
		s.Pets = PetsState{Data: clonePets(act.Pets), Loaded: true}
	case ClearPets:
		s.Pets = PetsState{}
	case RemovePet:
		data := make([]pet.Pet, 0, len(s.Pets.Data))
		for _, p := range s.Pets.Data {
			if p.ID != act.ID {
				data = append(data, p)
			}
		}
		s.Pets = PetsState{Data: data, Loaded: s.Pets.Loaded}
	}

	return s
}

func loggedIn(session user.Session) UserState {
	u := session.User
	return UserState{
		LoggedIn:     true,
		User:         &u,
		Token:        session.AccessToken,
		RefreshToken: session.RefreshToken,
	}
}

func clonePets(pets []pet.Pet) []pet.Pet {
	out := make([]pet.Pet, len(pets))
	copy(out, pets)
	return out
}
