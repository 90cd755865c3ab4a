package contact

import "strings"

// SubmitForm is the public contact form.
type SubmitForm struct {
	Name    string `form:"name" json:"name" validate:"required,max=255"`
	Email   string `form:"email" json:"email" validate:"required,max=255"`
	Message string `form:"message" json:"message" validate:"required"`
}

func (f SubmitForm) normalized() SubmitForm {
	return SubmitForm{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}
