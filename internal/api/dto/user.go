package dto

// RegisterDTO 注册请求体
type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Nickname string `json:"nickname" binding:"omitempty,max=50"`
}

// CredentialDTO 登录凭据
type CredentialDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserDTO 用户公开信息
type UserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// LoginResultDTO 登录成功返回
type LoginResultDTO struct {
	Token string `json:"token"`
}
