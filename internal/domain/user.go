package domain

// PurposeAuth tags session tokens issued on registration and login.
const PurposeAuth = "auth"

// Token is one entry of a user's live token list.
type Token struct {
	Purpose string
	Value   string
}

// User is the domain entity for a user account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Tokens       []Token
}

// HasToken reports whether the token list holds value for purpose.
func (u User) HasToken(purpose, value string) bool {
	for _, t := range u.Tokens {
		if t.Purpose == purpose && t.Value == value {
			return true
		}
	}
	return false
}
