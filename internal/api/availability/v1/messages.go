package availabilityv1

import "time"

// Сообщения передаются по сети как google.protobuf.Struct; поля — snake_case JSON.

type ListAvailabilityRequest struct {
	ProviderIDs   []string  `json:"provider_ids,omitempty"`
	ServiceID     string    `json:"service_id,omitempty"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	TimeZone      string    `json:"time_zone,omitempty"`
	Locale        string    `json:"locale,omitempty"`
	OnlyAvailable bool      `json:"only_available,omitempty"`
	Page          int       `json:"page,omitempty"`
	PageSize      int       `json:"page_size,omitempty"`
}

type ProviderCapacity struct {
	ProviderID string `json:"provider_id"`
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
}

type Slot struct {
	Start             time.Time          `json:"start"`
	End               time.Time          `json:"end"`
	Label             string             `json:"label"`
	Providers         []ProviderCapacity `json:"providers"`
	AvailabilityCount int                `json:"availability_count"`
	TotalCapacity     int                `json:"total_capacity"`
	TotalBooked       int                `json:"total_booked"`
	Remaining         int                `json:"remaining"`
}

type ListAvailabilityResponse struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Slots    []Slot    `json:"slots"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int       `json:"total"`
	HasNext  bool      `json:"has_next"`
}

type Break struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Day — день недели: weekday 0 = воскресенье … 6 = суббота, время "HH:mm".
type Day struct {
	Weekday   int     `json:"weekday"`
	IsActive  bool    `json:"is_active"`
	OpenTime  string  `json:"open_time,omitempty"`
	CloseTime string  `json:"close_time,omitempty"`
	Capacity  int     `json:"capacity"`
	Breaks    []Break `json:"breaks,omitempty"`
}

type Template struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  int    `json:"capacity"`
}

// SaveScheduleRequest — даты в формате "2006-01-02", пустая строка — без ограничения.
type SaveScheduleRequest struct {
	ProviderID          string `json:"provider_id"`
	ServiceID           string `json:"service_id,omitempty"`
	TimeZone            string `json:"time_zone,omitempty"`
	StartDate           string `json:"start_date,omitempty"`
	EndDate             string `json:"end_date,omitempty"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	Days                []Day  `json:"days"`
}

type SaveScheduleResponse struct {
	ScheduleID string     `json:"schedule_id"`
	TimeZone   string     `json:"time_zone"`
	Templates  []Template `json:"templates"`
}

type GetScheduleRequest struct {
	ProviderID string `json:"provider_id"`
	ServiceID  string `json:"service_id,omitempty"`
}

type GetScheduleResponse struct {
	ScheduleID          string     `json:"schedule_id"`
	ProviderID          string     `json:"provider_id"`
	ServiceID           string     `json:"service_id,omitempty"`
	TimeZone            string     `json:"time_zone"`
	StartDate           string     `json:"start_date,omitempty"`
	EndDate             string     `json:"end_date,omitempty"`
	SlotDurationMinutes int        `json:"slot_duration_minutes"`
	Days                []Day      `json:"days"`
	Templates           []Template `json:"templates"`
}

type CreateOneOffSlotRequest struct {
	ProviderID string    `json:"provider_id"`
	ServiceID  string    `json:"service_id,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Capacity   int       `json:"capacity"`
}

type CreateOneOffSlotResponse struct {
	SlotID string    `json:"slot_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
}
