package model

// Docente represents an instructor account. Admins are docentes with
// the is_admin flag set.
type Docente struct {
	ID           int    `json:"id"`
	Nombre       string `json:"nombre"`
	Correo       string `json:"correo"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
}

// DocentePublic is the projection exposed on unauthenticated reads
// (filter dropdowns). It never carries the password hash or role flag.
type DocentePublic struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

// Public returns the docente's public projection.
func (d *Docente) Public() DocentePublic {
	return DocentePublic{ID: d.ID, Nombre: d.Nombre}
}

// LoginRequest is the payload for docente authentication.
type LoginRequest struct {
	Correo   string `json:"correo" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string  `json:"token"`
	User  Docente `json:"user"`
}

// RegisterRequest is the payload for creating a docente account.
// Password has no length floor; any non-empty value is accepted.
type RegisterRequest struct {
	Nombre   string `json:"nombre" binding:"required,min=2,max=100"`
	Correo   string `json:"correo" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}
