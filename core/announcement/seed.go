package announcement

import "time"

// Seed returns the two announcements written on first access.
func Seed() []Announcement {
	return []Announcement{
		{
			ID:        "seed-2",
			Title:     "Inicio del segundo periodo académico",
			Body:      "Las clases del segundo periodo inician el lunes 11 de marzo. Revisen sus horarios en el portal.",
			CreatedAt: time.Date(2024, time.March, 4, 13, 0, 0, 0, time.UTC),
			Author:    "Jorge Salas",
			AuthorID:  "u4",
		},
		{
			ID:        "seed-1",
			Title:     "Mantenimiento de la biblioteca virtual",
			Body:      "La biblioteca virtual no estará disponible el sábado de 08:00 a 12:00 por mantenimiento.",
			CreatedAt: time.Date(2024, time.March, 1, 15, 30, 0, 0, time.UTC),
			Author:    "Lucía Romero",
			AuthorID:  "u3",
		},
	}
}
