package trip

import "strings"

// Columns selected for every trip row. date is fetched but not kept.
const (
	ColumnID       = "id"
	ColumnName     = "name"
	ColumnCounty   = "county"
	ColumnWaterway = "waterway"
	ColumnStart    = "start"
	ColumnFinish   = "finish"
	ColumnDate     = "date"
)

// Trip is one active trip listed on the sort page.
type Trip struct {
	ID          uint32  `json:"id"`
	Waterway    string  `json:"waterway"`
	County      string  `json:"county"`
	Start       string  `json:"start"`
	Finish      *string `json:"finish"`
	Contributor *string `json:"contributor"`
}

// DecodeRow fills t from row. The contributor comes from the name column and
// is trimmed of surrounding whitespace.
func (t *Trip) DecodeRow(row Row) error {
	var decoded Trip
	var err error

	if decoded.ID, err = row.Uint32(ColumnID); err != nil {
		return &DecodeError{Column: ColumnID, Err: err}
	}
	if decoded.Waterway, err = row.String(ColumnWaterway); err != nil {
		return &DecodeError{Column: ColumnWaterway, Err: err}
	}
	if decoded.County, err = row.String(ColumnCounty); err != nil {
		return &DecodeError{Column: ColumnCounty, Err: err}
	}
	if decoded.Start, err = row.String(ColumnStart); err != nil {
		return &DecodeError{Column: ColumnStart, Err: err}
	}
	if decoded.Finish, err = row.NullString(ColumnFinish); err != nil {
		return &DecodeError{Column: ColumnFinish, Err: err}
	}

	name, err := row.NullString(ColumnName)
	if err != nil {
		return &DecodeError{Column: ColumnName, Err: err}
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		decoded.Contributor = &trimmed
	}

	*t = decoded
	return nil
}

// Decode builds a Trip from row.
func Decode(row Row) (Trip, error) {
	var t Trip
	if err := t.DecodeRow(row); err != nil {
		return Trip{}, err
	}
	return t, nil
}
