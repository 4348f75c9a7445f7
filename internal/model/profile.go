package model

// Profile is the per-session student profile. It belongs to the session,
// not the registered user, and is cleared on logout.
type Profile struct {
	Name       string `json:"name"`
	Bio        string `json:"bio"`
	HasPicture bool   `json:"has_picture"`
}

// UpdateProfileRequest copies name and bio into the profile on explicit
// confirmation. The picture is uploaded separately and stored immediately.
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"max=100"`
	Bio  string `json:"bio" binding:"max=2000"`
}
