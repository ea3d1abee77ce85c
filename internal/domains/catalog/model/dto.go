package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const dateLayout = "2006-01-02"

// ListParams covers the search box and column ordering on entity list
// endpoints. Unknown ordering values fall back to the default order.
type ListParams struct {
	Search   string `form:"search"`
	Ordering string `form:"ordering"`
}

type AuthorRequest struct {
	Name        string  `json:"name"`
	Bio         *string `json:"bio"`
	BirthDate   *string `json:"birth_date"`
	Nationality *string `json:"nationality"`
}

func (r AuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.BirthDate, validation.Date(dateLayout)),
		validation.Field(&r.Nationality, validation.Length(0, 100)),
	)
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}

type GenreRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (r GenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 50)),
	)
}

type CharacterRequest struct {
	Name string `json:"name"`
}

func (r CharacterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

type AwardRequest struct {
	Name string `json:"name"`
	Year *int   `json:"year"`
}

func (r AwardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Year, validation.Min(0)),
	)
}

type PublisherRequest struct {
	Name string `json:"name"`
}

func (r PublisherRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

type LanguageRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (r LanguageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 10)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 50)),
	)
}

type SeriesRequest struct {
	Name string `json:"name"`
}

func (r SeriesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}
