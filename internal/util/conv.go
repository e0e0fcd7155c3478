package util

// UintPtr 返回 v 的指针，便于构造可选外键
func UintPtr(v uint) *uint {
	return &v
}
