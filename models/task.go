package models

import (
	"gorm.io/datatypes"
)

// GridTask 插值任务记录
type GridTask struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID    string         `gorm:"type:varchar(64);index" json:"taskid"`
	Algorithm string         `gorm:"type:varchar(50)" json:"algorithm"`
	Params    datatypes.JSON `json:"params"`
	Status    string         `gorm:"type:varchar(50)" json:"status"` // running / done / failed
	Progress  float64        `json:"progress"`
	Message   string         `gorm:"type:varchar(500)" json:"message"`
	CreatedAt string         `gorm:"type:varchar(255)" json:"created_at"`
}

// ContourRecord 等值线成果记录
type ContourRecord struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID    string  `gorm:"type:varchar(64);index" json:"taskid"`
	Level     float64 `json:"level"`
	LineCount int     `json:"line_count"`
	FilePath  string  `gorm:"type:varchar(500)" json:"file_path"`
	CreatedAt string  `gorm:"type:varchar(255)" json:"created_at"`
}

// MeshSession 网格编辑会话
type MeshSession struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string `gorm:"type:varchar(64);index" json:"session_id"`
	Username  string `gorm:"type:varchar(255)" json:"username"`
	Status    string `gorm:"type:varchar(50)" json:"status"` // active / closed
	CreatedAt string `gorm:"type:varchar(255)" json:"created_at"`
}
