package dto

// LoginRequest credenciales del operador.
type LoginRequest struct {
	Operator string `json:"operator"`
	Password string `json:"password"`
}

// LoginResponse token emitido tras autenticar.
type LoginResponse struct {
	Token string `json:"token"`
}
