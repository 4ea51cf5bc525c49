package dto

type AuditoriaFilter struct {
	Usuario string `form:"usuario"`
	Modulo  string `form:"modulo"`
	Accion  string `form:"accion"`
	Desde   string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta   string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=20" validate:"min=1,max=200"`
}

type AuditoriaItem struct {
	ID          int64  `json:"id"`
	Usuario     string `json:"usuario"`
	Modulo      string `json:"modulo"`
	Accion      string `json:"accion"`
	Descripcion string `json:"descripcion"`
	Fecha       string `json:"fecha"`
}

type AuditoriaListResponse struct {
	Data  []AuditoriaItem `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
