package model

// ==================== 用户角色 ====================

// UserRole 系统级角色
type UserRole string

const (
	RoleAdmin       UserRole = "admin"        // 超管，全部权限
	RoleShopManager UserRole = "shop_manager" // 店铺管理员，可编辑商品和设置
	RoleViewer      UserRole = "viewer"       // 只读员工，不能写任何东西
)

// ==================== 用户状态 ====================

const (
	UserStatusActive   = 1
	UserStatusDisabled = 0
)

// SysUser 后台用户账号
type SysUser struct {
	BaseModel
	// 基础信息
	Username string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // bcrypt 哈希
	Email    string `gorm:"size:100"`

	// 系统级角色: admin (超管), shop_manager (店铺管理员), viewer (只读)
	Role UserRole `gorm:"size:20;default:'viewer'"`

	Status      int   `gorm:"default:1"` // 1: 启用, 0: 禁用
	LastLoginTS int64 `gorm:"default:0"` // 最后登录时间戳
}

func (SysUser) TableName() string {
	return "sys_users"
}

// CanEditProducts 是否具备商品编辑权限
// 对标 WooCommerce 的 edit_product capability
func (u *SysUser) CanEditProducts() bool {
	return u.Role == RoleAdmin || u.Role == RoleShopManager
}

// CanManageSettings 是否可以修改插件设置
// 对标 manage_woocommerce capability
func (u *SysUser) CanManageSettings() bool {
	return u.Role == RoleAdmin || u.Role == RoleShopManager
}
