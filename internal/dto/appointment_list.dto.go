package dto

type AppointmentListDTO struct {
	ID           uint   `json:"id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	Service      string `json:"service"`
	ClientName   string `json:"client_name"`
	VehiclePlate string `json:"vehicle_plate"`
}
