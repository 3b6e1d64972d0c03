package repositories

import (
	"chip8arcade/internal/database"
)

type Repository struct {
	User UserRepository
	Role RoleRepository
	Game GameRepository
}

func New(db database.DB) Repository {
	return Repository{
		User: NewUserRepository(db.Cache.General),
		Role: NewRoleRepository(),
		Game: NewGameRepository(db.Cache.Game),
	}
}
