package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/ports"
)

// historyTimeout bounds the history write after an upload
const historyTimeout = 5 * time.Second

// SessionProvider is the read view of the session used by the batch controller
type SessionProvider interface {
	GetProject(ctx context.Context) (*domain.Project, error)
	Project() *domain.Project
	Session() *domain.Session
}

// batchRow is a parsed report with a key stable for the lifetime of the process
type batchRow struct {
	key    uint64
	report domain.Report
}

// BatchService tracks one parsed document through selection and upload.
// Rows are either pending or uploaded, never both.
type BatchService struct {
	gateway  ports.ReportUploader
	history  ports.HistoryRepository
	parser   ports.DocumentParser
	policy   domain.ReclassifyPolicy
	sessions SessionProvider

	mu         sync.Mutex
	generation uint64
	lastErr    error
	loading    int
	nextKey    uint64
	pending    []batchRow
	selection  map[int]struct{}
	uploaded   []batchRow
	uploading  bool

	now func() time.Time
}

// NewBatchService creates a new BatchService
func NewBatchService(
	gateway ports.ReportUploader,
	parser ports.DocumentParser,
	history ports.HistoryRepository,
	sessions SessionProvider,
	policy domain.ReclassifyPolicy,
) *BatchService {
	if policy == "" {
		policy = domain.DefaultReclassifyPolicy
	}
	return &BatchService{
		gateway:   gateway,
		history:   history,
		parser:    parser,
		policy:    policy,
		sessions:  sessions,
		selection: make(map[int]struct{}),
		now:       time.Now,
	}
}

// Policy returns the reclassification policy in use
func (b *BatchService) Policy() domain.ReclassifyPolicy {
	return b.policy
}

// ParseDocument parses path and loads the result as the new pending set.
// A parse failure leaves the batch untouched.
func (b *BatchService) ParseDocument(ctx context.Context, path string) (int, error) {
	logging.Logger.Info("Parsing document", "path", path)

	b.mu.Lock()
	b.loading++
	b.mu.Unlock()

	reports, err := b.parser.Parse(ctx, path)

	b.mu.Lock()
	b.loading--
	if err == nil && len(reports) == 0 {
		err = domain.ErrNoReports
	}
	if err != nil {
		if !errors.Is(err, domain.ErrParse) {
			err = fmt.Errorf("%w: %w", domain.ErrParse, err)
		}
		b.lastErr = err
		b.mu.Unlock()
		logging.Logger.Warn("Failed to parse document", "path", path, "error", err)
		return 0, err
	}
	b.mu.Unlock()

	b.LoadParsedReports(reports)
	return len(reports), nil
}

// LoadParsedReports replaces the pending set and clears the selection.
// Uploaded rows are kept.
func (b *BatchService) LoadParsedReports(reports []domain.Report) {
	project := b.sessions.Project()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.generation++
	b.pending = make([]batchRow, len(reports))
	for i, report := range reports {
		if project != nil && project.Name != "" {
			report.ProjectName = project.Name
		}
		b.nextKey++
		b.pending[i] = batchRow{key: b.nextKey, report: report}
	}
	b.selection = make(map[int]struct{})
	b.lastErr = nil

	logging.Logger.Info("Parsed reports loaded", "count", len(reports), "generation", b.generation)
}

// Toggle flips the selection of a pending row; invalid indices are ignored
func (b *BatchService) Toggle(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.pending) {
		logging.Logger.Debug("Ignoring toggle of invalid index", "index", index, "pending", len(b.pending))
		return
	}
	if _, ok := b.selection[index]; ok {
		delete(b.selection, index)
		return
	}
	b.selection[index] = struct{}{}
}

// SelectAll selects every pending row
func (b *BatchService) SelectAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.selection = make(map[int]struct{}, len(b.pending))
	for i := range b.pending {
		b.selection[i] = struct{}{}
	}
}

// DeselectAll empties the selection
func (b *BatchService) DeselectAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = make(map[int]struct{})
}

// Upload sends the selected rows to the remote service and moves the rows
// chosen by the reclassification policy from pending to uploaded.
// Rows are captured when the call starts; selection changes made while
// the request is in flight do not affect it.
func (b *BatchService) Upload(ctx context.Context, overwrite bool) (domain.UploadOutcome, error) {
	b.mu.Lock()
	if b.uploading {
		b.mu.Unlock()
		return domain.UploadOutcome{}, domain.ErrUploadInProgress
	}
	if len(b.selection) == 0 {
		b.lastErr = domain.ErrEmptySelection
		b.mu.Unlock()
		return domain.UploadOutcome{}, domain.ErrEmptySelection
	}
	gen := b.generation
	indices := b.selectedIndicesLocked()
	snapshot := make([]batchRow, len(indices))
	for i, idx := range indices {
		snapshot[i] = b.pending[idx]
	}
	b.uploading = true
	b.loading++
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.uploading = false
		b.loading--
		b.mu.Unlock()
	}()

	session := b.sessions.Session()
	if !session.Active() || session.Identity.ID == 0 {
		return b.fail(domain.ErrMissingIdentity)
	}

	project := b.sessions.Project()
	if project == nil {
		fetched, err := b.sessions.GetProject(ctx)
		if err != nil {
			logging.Logger.Warn("Project unavailable for upload", "error", err)
		} else {
			project = fetched
		}
	}
	if project == nil {
		return b.fail(domain.ErrMissingProject)
	}

	req := ports.UploadRequest{
		Overwrite:  overwrite,
		ProjectID:  project.ID,
		ReporterID: session.Identity.ID,
		Reports:    make([]domain.Report, len(snapshot)),
	}
	for i, row := range snapshot {
		req.Reports[i] = row.report
	}

	batch := domain.UploadBatch{
		ID:          uuid.New().String(),
		Overwrite:   overwrite,
		Policy:      b.policy,
		ProjectID:   project.ID,
		ProjectName: project.Name,
		ReporterID:  session.Identity.ID,
		Total:       len(snapshot),
	}

	logging.Logger.Info("Uploading reports",
		"batch_id", batch.ID,
		"count", len(snapshot),
		"project_id", project.ID,
		"overwrite", overwrite)

	outcome, err := b.gateway.UploadReports(ctx, session.Endpoint, session.AccessToken, req)
	if err == nil && outcome == nil {
		err = errors.New("server returned no result")
	}
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", domain.ErrUpload, err)
		batch.Error = err.Error()
		batch.CreatedAt = b.now()
		b.record(batch)
		logging.Logger.Error("Upload failed", "batch_id", batch.ID, "error", err)
		return b.fail(wrapped)
	}

	promoted := b.promotable(snapshot, outcome)

	b.mu.Lock()
	b.applyPromotionLocked(promoted, gen)
	b.lastErr = nil
	b.mu.Unlock()

	batch.Failed = outcome.Failed
	batch.Promoted = len(promoted)
	batch.Skipped = outcome.Skipped
	batch.Succeeded = outcome.Succeeded
	if outcome.Total > 0 {
		batch.Total = outcome.Total
	}
	batch.CreatedAt = b.now()
	b.record(batch)

	logging.Logger.Info("Upload completed",
		"batch_id", batch.ID,
		"total", outcome.Total,
		"succeeded", outcome.Succeeded,
		"failed", outcome.Failed,
		"skipped", outcome.Skipped,
		"promoted", len(promoted))

	return *outcome, nil
}

// RowAt returns the row at index in the named set
func (b *BatchService) RowAt(set domain.RowSet, index int) (domain.Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var rows []batchRow
	switch set {
	case domain.RowSetPending:
		rows = b.pending
	case domain.RowSetUploaded:
		rows = b.uploaded
	default:
		return domain.Report{}, fmt.Errorf("%w: unknown row set %q", domain.ErrIndex, set)
	}
	if index < 0 || index >= len(rows) {
		return domain.Report{}, fmt.Errorf("%w: %s[%d] (size %d)", domain.ErrIndex, set, index, len(rows))
	}
	return rows[index].report, nil
}

// Pending returns the rows not yet uploaded, in parse order
func (b *BatchService) Pending() []domain.Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return reportsOf(b.pending)
}

// Uploaded returns the rows confirmed by uploads, oldest first
func (b *BatchService) Uploaded() []domain.Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return reportsOf(b.uploaded)
}

// Selection returns the selected pending indices in ascending order
func (b *BatchService) Selection() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectedIndicesLocked()
}

// IsSelected reports whether the pending row at index is selected
func (b *BatchService) IsSelected(index int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.selection[index]
	return ok
}

// Loading reports whether a parse or upload is in flight
func (b *BatchService) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading > 0
}

// Err returns the last error recorded by the service
func (b *BatchService) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// History returns the most recent upload attempts
func (b *BatchService) History(ctx context.Context, limit int) ([]domain.UploadBatch, error) {
	batches, err := b.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upload history: %w", err)
	}
	return batches, nil
}

// promotable picks the snapshot rows to move according to the policy
func (b *BatchService) promotable(snapshot []batchRow, outcome *domain.UploadOutcome) []batchRow {
	if b.policy != domain.PolicyPromoteConfirmed {
		if outcome.Failed > 0 {
			logging.Logger.Warn("Promoting all selected rows despite reported failures",
				"failed", outcome.Failed)
		}
		return snapshot
	}

	if len(outcome.Results) == 0 {
		if outcome.Failed == 0 {
			return snapshot
		}
		logging.Logger.Warn("No per-row results and failures reported, keeping rows pending",
			"failed", outcome.Failed)
		return nil
	}

	confirmed := make(map[int]bool, len(outcome.Results))
	for _, r := range outcome.Results {
		if r.Success && r.Position >= 0 && r.Position < len(snapshot) {
			confirmed[r.Position] = true
		}
	}
	promoted := make([]batchRow, 0, len(confirmed))
	for i, row := range snapshot {
		if confirmed[i] {
			promoted = append(promoted, row)
		}
	}
	return promoted
}

// applyPromotionLocked moves promoted rows to uploaded. When a new parse
// replaced pending meanwhile, the new rows and selection are left alone.
func (b *BatchService) applyPromotionLocked(promoted []batchRow, gen uint64) {
	b.uploaded = append(b.uploaded, promoted...)

	if gen != b.generation {
		logging.Logger.Info("Pending set replaced during upload, keeping new rows", "generation", b.generation)
		return
	}

	moved := make(map[uint64]bool, len(promoted))
	for _, row := range promoted {
		moved[row.key] = true
	}
	remaining := make([]batchRow, 0, len(b.pending))
	for _, row := range b.pending {
		if !moved[row.key] {
			remaining = append(remaining, row)
		}
	}
	b.pending = remaining
	b.selection = make(map[int]struct{})
}

func (b *BatchService) selectedIndicesLocked() []int {
	indices := make([]int, 0, len(b.selection))
	for idx := range b.selection {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

func (b *BatchService) fail(err error) (domain.UploadOutcome, error) {
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
	return domain.UploadOutcome{}, err
}

// record writes the batch to history; failures are logged only
func (b *BatchService) record(batch domain.UploadBatch) {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	if err := b.history.Record(ctx, batch); err != nil {
		logging.Logger.Warn("Failed to record upload history", "batch_id", batch.ID, "error", err)
	}
}

func reportsOf(rows []batchRow) []domain.Report {
	reports := make([]domain.Report, len(rows))
	for i, row := range rows {
		reports[i] = row.report
	}
	return reports
}
