package model

// UserRole 由 LMS 签发的 JWT 携带，本服务不保存用户表
type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// CanManage 对应 mod/gabigame:manage 能力
func (r UserRole) CanManage() bool {
	return r == Teacher || r == Admin
}
