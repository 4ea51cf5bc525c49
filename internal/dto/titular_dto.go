package dto

type ReemplazarTitularRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=150"`
	Cargo  string `json:"cargo"  validate:"required,min=2,max=150"`
	Rut    string `json:"rut"    validate:"required,rut"`
}

type TitularResponse struct {
	ID            int    `json:"id"`
	RolID         int    `json:"rol_id"`
	Rol           string `json:"rol"`
	Nombre        string `json:"nombre"`
	Cargo         string `json:"cargo"`
	Rut           string `json:"rut"`
	ActualizadoEn string `json:"actualizado_en"`
}
