package trip_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

// fakeRow is a column map where a nil value stands for SQL NULL.
type fakeRow map[string]any

func (r fakeRow) lookup(column string) (any, error) {
	v, ok := r[column]
	if !ok {
		return nil, trip.ErrMissingColumn
	}
	return v, nil
}

func (r fakeRow) Uint32(column string) (uint32, error) {
	v, err := r.lookup(column)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok || n < 0 {
		return 0, trip.ErrColumnType
	}
	return uint32(n), nil
}

func (r fakeRow) String(column string) (string, error) {
	v, err := r.lookup(column)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", trip.ErrNullColumn
	}
	s, ok := v.(string)
	if !ok {
		return "", trip.ErrColumnType
	}
	return s, nil
}

func (r fakeRow) NullString(column string) (*string, error) {
	v, err := r.lookup(column)
	if err != nil || v == nil {
		return nil, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, trip.ErrColumnType
	}
	return &s, nil
}

func validRow() fakeRow {
	return fakeRow{
		"id":       1,
		"name":     " Sam ",
		"county":   "Franklin",
		"waterway": "Elk River",
		"start":    "Bridge A",
		"finish":   nil,
		"date":     "2021-06-01",
	}
}

var _ = Describe("Trip", func() {
	Describe("Decode", func() {
		It("should decode every selected column", func() {
			row := validRow()
			row["finish"] = "Mill Dam"

			t, err := trip.Decode(row)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.ID).To(Equal(uint32(1)))
			Expect(t.Waterway).To(Equal("Elk River"))
			Expect(t.County).To(Equal("Franklin"))
			Expect(t.Start).To(Equal("Bridge A"))
			Expect(t.Finish).To(HaveValue(Equal("Mill Dam")))
		})

		It("should trim the contributor name", func() {
			row := validRow()
			row["name"] = "  Jane  "

			t, err := trip.Decode(row)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Contributor).To(HaveValue(Equal("Jane")))
		})

		It("should leave contributor absent for a null name", func() {
			row := validRow()
			row["name"] = nil

			t, err := trip.Decode(row)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Contributor).To(BeNil())
		})

		It("should leave finish absent for a null finish", func() {
			t, err := trip.Decode(validRow())
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Finish).To(BeNil())
		})

		It("should not require the date column to be kept", func() {
			row := validRow()
			delete(row, "date")

			_, err := trip.Decode(row)
			Expect(err).NotTo(HaveOccurred())
		})

		Context("with a broken row", func() {
			It("should fail when county is missing", func() {
				row := validRow()
				delete(row, "county")

				t, err := trip.Decode(row)
				Expect(err).To(HaveOccurred())
				Expect(t).To(Equal(trip.Trip{}))

				var decodeErr *trip.DecodeError
				Expect(errors.As(err, &decodeErr)).To(BeTrue())
				Expect(decodeErr.Column).To(Equal("county"))
				Expect(errors.Is(err, trip.ErrMissingColumn)).To(BeTrue())
			})

			It("should fail when a required column is null", func() {
				row := validRow()
				row["waterway"] = nil

				_, err := trip.Decode(row)
				Expect(errors.Is(err, trip.ErrNullColumn)).To(BeTrue())
			})

			It("should fail when id has the wrong type", func() {
				row := validRow()
				row["id"] = "one"

				_, err := trip.Decode(row)
				Expect(errors.Is(err, trip.ErrColumnType)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring(`"id"`))
			})

			It("should fail when the name column is missing", func() {
				row := validRow()
				delete(row, "name")

				_, err := trip.Decode(row)
				Expect(errors.Is(err, trip.ErrMissingColumn)).To(BeTrue())
			})
		})
	})

	Describe("DecodeRow", func() {
		It("should leave the receiver untouched on failure", func() {
			t := trip.Trip{ID: 7, Waterway: "Kept"}
			row := validRow()
			delete(row, "start")

			Expect(t.DecodeRow(row)).To(HaveOccurred())
			Expect(t.ID).To(Equal(uint32(7)))
			Expect(t.Waterway).To(Equal("Kept"))
		})

		It("should satisfy the Decoder interface", func() {
			var d trip.Decoder = &trip.Trip{}
			Expect(d.DecodeRow(validRow())).To(Succeed())
		})
	})
})
