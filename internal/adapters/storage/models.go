package storage

import "time"

// sessionRowID is the primary key of the single stored session
const sessionRowID = 1

// SessionModel is the GORM model for the sessions table. It holds at most
// one row; tokens are stored sealed.
type SessionModel struct {
	CreatedAt     time.Time
	DisplayName   string    `gorm:"not null;default:''"`
	Email         string    `gorm:"not null;default:''"`
	Endpoint      string    `gorm:"not null"`
	ExpiresAt     time.Time `gorm:"not null"`
	ID            uint      `gorm:"primaryKey;autoIncrement:false"`
	Phone         string    `gorm:"not null;default:''"`
	Role          string    `gorm:"not null;default:''"`
	SealedAccess  []byte    `gorm:"not null"`
	SealedRefresh []byte
	UpdatedAt     time.Time
	UserID        int64  `gorm:"not null"`
	Username      string `gorm:"not null;default:''"`
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string { return "sessions" }

// UploadBatchModel is the GORM model for upload history
type UploadBatchModel struct {
	CreatedAt   time.Time `gorm:"not null;index:idx_batch_created"`
	Error       string    `gorm:"not null;default:''"`
	Failed      int       `gorm:"not null;default:0"`
	ID          string    `gorm:"primaryKey"`
	Overwrite   bool      `gorm:"not null;default:false"`
	Policy      string    `gorm:"not null;default:'all'"`
	ProjectID   int64     `gorm:"not null;index:idx_batch_project"`
	ProjectName string    `gorm:"not null;default:''"`
	Promoted    int       `gorm:"not null;default:0"`
	ReporterID  int64     `gorm:"not null"`
	Skipped     int       `gorm:"not null;default:0"`
	Succeeded   int       `gorm:"not null;default:0"`
	Total       int       `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (UploadBatchModel) TableName() string { return "upload_batches" }
