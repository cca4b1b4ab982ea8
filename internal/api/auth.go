package api

import (
	"net/http"
	"strings"

	"github.com/tastoria/orders-api/internal/domain/identity"
)

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleSignInRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	FirebaseUID string `json:"firebaseUid"`
}

type profileUpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Role         identity.Role `json:"role"`
	Verified     bool          `json:"verified"`
	ProfileImage string        `json:"profileImage,omitempty"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *identity.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Verified:     u.Verified,
		ProfileImage: u.ProfileImage,
	}
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	err := h.identity.Signup(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "verification code sent",
	})
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	session, err := h.identity.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	session, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

func (h *Handler) googleSignIn(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.FirebaseUID == "" {
		writeError(w, http.StatusBadRequest, kindValidation, "name, email and firebaseUid are required")
		return
	}

	session, err := h.identity.GoogleSignIn(r.Context(), req.Name, req.Email, req.FirebaseUID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	user, err := h.identity.Me(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// updateProfile applies a partial account edit. A multipart body may carry
// a "photo" part, which is uploaded and stored as the profile image.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var upd identity.ProfileUpdate
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		const maxUploadSize = 10 << 20
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, kindValidation, "invalid multipart form")
			return
		}
		upd.Name = r.FormValue("name")
		upd.Email = r.FormValue("email")
		upd.Password = r.FormValue("password")

		if photo, _, err := r.FormFile("photo"); err == nil {
			defer photo.Close()
			url, err := h.uploads.Upload(r.Context(), "profile_images", photo)
			if err != nil {
				writeError(w, http.StatusBadGateway, kindDependency, "image upload failed")
				return
			}
			upd.ProfileImage = url
		}
	} else {
		var req profileUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
			return
		}
		upd = identity.ProfileUpdate{Name: req.Name, Email: req.Email, Password: req.Password}
	}

	user, err := h.identity.UpdateProfile(r.Context(), claims.UserID, upd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
