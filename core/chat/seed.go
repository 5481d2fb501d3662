package chat

import "time"

var seedDay = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

// Seed is the fixed list served when no valid message list is stored.
func Seed(loc *time.Location) []Message {
	at := func(h, m int) time.Time { return seedDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	msgs := []Message{
		{
			ID: 1, UserID: "u2", UserName: "Carlos Méndez",
			Text:      "Buenos días. Recuerden que el examen parcial es el viernes.",
			CreatedAt: at(13, 15),
		},
		{
			ID: 2, UserID: "u1", UserName: "Ana Torres",
			Text:      "Profesor, ¿podría revisar mi avance del trabajo final?",
			CreatedAt: at(14, 2),
			To:        &Recipient{ID: "u2", Name: "Carlos Méndez"},
		},
		{
			ID: 3, UserID: "u3", UserName: "Lucía Romero",
			Text:       "Adjunto el informe de matrícula del ciclo.",
			CreatedAt:  at(15, 30),
			Attachment: &Attachment{URL: "https://aula.edu.pe/docs/matricula.pdf", Name: "matricula.pdf"},
			To:         &Recipient{ID: "u4", Name: "Jorge Salas"},
		},
		{
			ID: 4, UserID: "u4", UserName: "Jorge Salas",
			Text:      "Reunión de coordinación el lunes a las 10:00.",
			CreatedAt: at(16, 45),
		},
	}
	for i := range msgs {
		msgs[i].AvatarURL = "https://i.pravatar.cc/150?u=" + msgs[i].UserID
		msgs[i].Time = formatTime(msgs[i].CreatedAt, loc)
	}
	return msgs
}
