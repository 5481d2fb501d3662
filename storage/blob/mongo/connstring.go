package mongoblob

import "go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

func connstringDatabase(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", err
	}
	return cs.Database, nil
}
