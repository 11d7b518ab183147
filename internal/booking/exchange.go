package booking

import (
	"fmt"
	"time"
)

// TitleSuffix is appended to customer names when building titles.
const TitleSuffix = " 様"

// BackendCustomer is the customer object embedded in backend bookings.
type BackendCustomer struct {
	ID          int64  `json:"id"`
	Name        string `json:"customerName"`
	Email       string `json:"customerEmail"`
	PhoneNumber string `json:"customerPhoneNumber"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// BackendBooking is the booking shape returned by the REST backend.
type BackendBooking struct {
	ID                   int64           `json:"id"`
	Customer             BackendCustomer `json:"customers"`
	FirstChoiceDateTime  string          `json:"firstChoiceDateTime"`
	SecondChoiceDateTime string          `json:"secondChoiceDateTime,omitempty"`
	EndDateTime          string          `json:"endDateTime,omitempty"`
	Status               string          `json:"status"`
	Message              string          `json:"message,omitempty"`
	CreatedAt            string          `json:"createdAt,omitempty"`
	ChoiceStretch        int             `json:"choiseStretch"`
}

// UpdateRequest is the body of an update call.
type UpdateRequest struct {
	ID                  int64  `json:"id"`
	FirstChoiceDateTime string `json:"firstChoiceDateTime"`
	EndDateTime         string `json:"endDateTime"`
	ChoiceStretch       *int   `json:"choiseStretch,omitempty"`
	Status              string `json:"status,omitempty"`
}

// ToBooking converts a backend record into a board Booking.
// When the backend omits an explicit end, the end is start + course
// (DefaultCourseMinutes when the course is missing).
func (bb BackendBooking) ToBooking() (Booking, error) {
	start, err := ParseLocal(bb.FirstChoiceDateTime)
	if err != nil {
		return Booking{}, fmt.Errorf("booking %d start: %w", bb.ID, err)
	}

	course := bb.ChoiceStretch
	if course <= 0 {
		course = DefaultCourseMinutes
	}

	end := start.Add(time.Duration(course) * time.Minute)
	if bb.EndDateTime != "" {
		end, err = ParseLocal(bb.EndDateTime)
		if err != nil {
			return Booking{}, fmt.Errorf("booking %d end: %w", bb.ID, err)
		}
	}

	// Unknown statuses keep the default color instead of failing the whole day.
	status, err := ParseStatus(bb.Status)
	if err != nil {
		status = ""
	}

	b := Booking{
		ID:            FormatID(bb.ID),
		Title:         bb.Customer.Name + TitleSuffix,
		Start:         start,
		End:           end,
		Status:        status,
		CustomerName:  bb.Customer.Name,
		CustomerEmail: bb.Customer.Email,
		CustomerPhone: bb.Customer.PhoneNumber,
		Message:       bb.Message,
	}
	if ValidCourse(bb.ChoiceStretch) {
		b.CourseMinutes = bb.ChoiceStretch
	}
	if err := b.Validate(); err != nil {
		return Booking{}, fmt.Errorf("booking %d: %w", bb.ID, err)
	}
	return b, nil
}

// ToBookings converts a backend list, failing on the first malformed record.
func ToBookings(list []BackendBooking) ([]Booking, error) {
	out := make([]Booking, 0, len(list))
	for _, bb := range list {
		b, err := bb.ToBooking()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// FromBooking converts a board Booking into the backend shape.
func FromBooking(b Booking) (BackendBooking, error) {
	id, err := ParseID(b.ID)
	if err != nil {
		return BackendBooking{}, err
	}
	return BackendBooking{
		ID: id,
		Customer: BackendCustomer{
			Name:        b.CustomerName,
			Email:       b.CustomerEmail,
			PhoneNumber: b.CustomerPhone,
		},
		FirstChoiceDateTime: FormatLocal(b.Start),
		EndDateTime:         FormatLocal(b.End),
		Status:              string(b.Status),
		Message:             b.Message,
		ChoiceStretch:       b.CourseMinutes,
	}, nil
}

// NewUpdateRequest builds the update body for id, validating the id format.
func NewUpdateRequest(id string, p Patch) (UpdateRequest, error) {
	n, err := ParseID(id)
	if err != nil {
		return UpdateRequest{}, err
	}
	if !p.End.After(p.Start) {
		return UpdateRequest{}, ErrEndBeforeStart
	}
	req := UpdateRequest{
		ID:                  n,
		FirstChoiceDateTime: FormatLocal(p.Start),
		EndDateTime:         FormatLocal(p.End),
		ChoiceStretch:       p.CourseMinutes,
	}
	if p.Status != nil {
		req.Status = string(*p.Status)
	}
	return req, nil
}

// Patch converts an update body back into a Patch.
func (r UpdateRequest) Patch() (Patch, error) {
	start, err := ParseLocal(r.FirstChoiceDateTime)
	if err != nil {
		return Patch{}, fmt.Errorf("start: %w", err)
	}
	end, err := ParseLocal(r.EndDateTime)
	if err != nil {
		return Patch{}, fmt.Errorf("end: %w", err)
	}
	if !end.After(start) {
		return Patch{}, ErrEndBeforeStart
	}
	p := Patch{Start: start, End: end, CourseMinutes: r.ChoiceStretch}
	if p.CourseMinutes != nil && !ValidCourse(*p.CourseMinutes) {
		return Patch{}, fmt.Errorf("%w: %d", ErrInvalidCourse, *p.CourseMinutes)
	}
	if r.Status != "" {
		s, err := ParseStatus(r.Status)
		if err != nil {
			return Patch{}, err
		}
		p.Status = &s
	}
	return p, nil
}
