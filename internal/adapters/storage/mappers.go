package storage

import (
	"github.com/siteops/dailyup/internal/domain"
)

// sessionModelToDomain converts a SessionModel with opened tokens to domain.Session
func sessionModelToDomain(m SessionModel, accessToken, refreshCredential string) domain.Session {
	return domain.Session{
		AccessToken: accessToken,
		Endpoint:    m.Endpoint,
		ExpiresAt:   m.ExpiresAt,
		Identity: domain.Identity{
			DisplayName: m.DisplayName,
			Email:       m.Email,
			ID:          m.UserID,
			Phone:       m.Phone,
			Role:        m.Role,
			Username:    m.Username,
		},
		RefreshCredential: refreshCredential,
	}
}

// domainToSessionModel converts a domain.Session to SessionModel; the caller seals tokens
func domainToSessionModel(s domain.Session, sealedAccess, sealedRefresh []byte) SessionModel {
	return SessionModel{
		DisplayName:   s.Identity.DisplayName,
		Email:         s.Identity.Email,
		Endpoint:      s.Endpoint,
		ExpiresAt:     s.ExpiresAt.UTC(),
		ID:            sessionRowID,
		Phone:         s.Identity.Phone,
		Role:          s.Identity.Role,
		SealedAccess:  sealedAccess,
		SealedRefresh: sealedRefresh,
		UserID:        s.Identity.ID,
		Username:      s.Identity.Username,
	}
}

func batchModelToDomain(m UploadBatchModel) domain.UploadBatch {
	return domain.UploadBatch{
		CreatedAt:   m.CreatedAt,
		Error:       m.Error,
		Failed:      m.Failed,
		ID:          m.ID,
		Overwrite:   m.Overwrite,
		Policy:      domain.ReclassifyPolicy(m.Policy),
		ProjectID:   m.ProjectID,
		ProjectName: m.ProjectName,
		Promoted:    m.Promoted,
		ReporterID:  m.ReporterID,
		Skipped:     m.Skipped,
		Succeeded:   m.Succeeded,
		Total:       m.Total,
	}
}

func domainToBatchModel(b domain.UploadBatch) UploadBatchModel {
	return UploadBatchModel{
		CreatedAt:   b.CreatedAt.UTC(),
		Error:       b.Error,
		Failed:      b.Failed,
		ID:          b.ID,
		Overwrite:   b.Overwrite,
		Policy:      string(b.Policy),
		ProjectID:   b.ProjectID,
		ProjectName: b.ProjectName,
		Promoted:    b.Promoted,
		ReporterID:  b.ReporterID,
		Skipped:     b.Skipped,
		Succeeded:   b.Succeeded,
		Total:       b.Total,
	}
}
