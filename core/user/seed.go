package user

import "time"

var seedCreatedAt = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

// SeedUsers is the demo directory written on first access to an empty store.
// Seeded accounts have no password; use `admin resetpassword` to enable their login.
func SeedUsers() []User {
	seed := []struct{ id, name, uname, role string }{
		{"u1", "Ana Torres", "atorres", RoleStudent},
		{"u2", "Carlos Méndez", "cmendez", RoleTeacher},
		{"u3", "Lucía Romero", "lromero", RoleAdministrative},
		{"u4", "Jorge Salas", "jsalas", RoleExecutive},
		{"u5", "Marta Díaz", "mdiaz", RoleLibrarian},
		{"u6", "Pedro Quispe", "pquispe", RoleTeacher},
	}
	users := make([]User, 0, len(seed))
	for _, s := range seed {
		users = append(users, User{
			ID:        s.id,
			Name:      s.name,
			Username:  s.uname,
			Email:     s.uname + "@aula.edu.pe",
			Role:      s.role,
			AvatarURL: "https://i.pravatar.cc/150?u=" + s.id,
			IsActive:  true,
			CreatedAt: seedCreatedAt,
			UpdatedAt: seedCreatedAt,
		})
	}
	return users
}
