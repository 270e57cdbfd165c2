package models

import "github.com/maroso-log/devtrack/internal/sheetdb"

// User is one row of the USUARIOS tab.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// UserFromRow maps a spreadsheet row onto a User.
func UserFromRow(row sheetdb.Row) User {
	return User{
		Username: row["USERNAME"],
		Password: row["PASSWORD"],
		Name:     row["NOME"],
		Role:     row["PERFIL"],
	}
}
