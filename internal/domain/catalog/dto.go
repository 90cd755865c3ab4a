package catalog

import (
	"strconv"
	"strings"
)

// ServiceForm is the admin create/edit form.
type ServiceForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	IsActive    string `form:"is_active"`
	Featured    string `form:"featured"`
	SortOrder   string `form:"sort_order"`
}

type Input struct {
	Title       string
	Description string
	IsActive    bool
	Featured    bool
	SortOrder   int
}

func (f ServiceForm) Input() Input {
	order, err := strconv.Atoi(strings.TrimSpace(f.SortOrder))
	if err != nil {
		order = 0
	}
	return Input{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		IsActive:    f.IsActive == "on",
		Featured:    f.Featured == "on",
		SortOrder:   order,
	}
}

// normalized trims the text fields for callers that skip the form.
func (in Input) normalized() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}
