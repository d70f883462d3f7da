package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/accounttree"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	portsrepo "github.com/usamajaved138/erp-frontend/internal/core/ports/repositories"
	portssvc "github.com/usamajaved138/erp-frontend/internal/core/ports/services"
)

var draftValidator = validator.New()

// chartView implements the ChartViewSvc interface. It owns the record set
// fetched from the remote API, the per-account expansion state, the search
// term and the queue of pending notifications.
//
// The mutex is never held across a call to the repository.
type chartView struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	id          string
	now         func() time.Time

	mu         sync.Mutex
	records    []domain.AccountRecord
	forest     []*domain.AccountNode
	expanded   map[int]bool // explicit overrides of the default "open iff root" rule
	search     string
	toasts     []domain.Notification
	loaded     bool
	closed     bool
	loadSeq    uint64
	appliedSeq uint64
	lastActive time.Time
}

// ChartViewOption is a functional option for configuring a chart view
type ChartViewOption func(*chartView)

// WithChartViewLogger sets the logger used when the context carries none.
func WithChartViewLogger(logger *slog.Logger) ChartViewOption {
	return func(v *chartView) {
		v.Logger = logger
	}
}

// WithChartViewID overrides the generated view id.
func WithChartViewID(id string) ChartViewOption {
	return func(v *chartView) {
		v.id = id
	}
}

// WithChartViewClock overrides time.Now, used for notification timestamps and idle tracking.
func WithChartViewClock(now func() time.Time) ChartViewOption {
	return func(v *chartView) {
		v.now = now
	}
}

// NewChartView creates a chart view over the given repository. The view is
// empty until Load is called.
func NewChartView(repo portsrepo.AccountRepositoryFacade, options ...ChartViewOption) portssvc.ChartViewSvc {
	return newChartView(repo, options...)
}

func newChartView(repo portsrepo.AccountRepositoryFacade, options ...ChartViewOption) *chartView {
	v := &chartView{
		accountRepo: repo,
		id:          uuid.NewString(),
		now:         time.Now,
		forest:      []*domain.AccountNode{},
		expanded:    make(map[int]bool),
	}
	for _, option := range options {
		option(v)
	}
	v.lastActive = v.now()
	return v
}

func (v *chartView) ID() string {
	return v.id
}

func (v *chartView) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return apperrors.ErrViewClosed
	}
	v.loadSeq++
	seq := v.loadSeq
	v.lastActive = v.now()
	v.mu.Unlock()

	records, err := v.accountRepo.FetchAccounts(ctx)
	malformed := errors.Is(err, apperrors.ErrMalformedResponse)
	if err != nil && !malformed {
		return v.fail(ctx, err, "Failed to load chart of accounts")
	}
	if malformed {
		v.LogWarn(ctx, "Account list was not an array, showing an empty chart",
			slog.String("view_id", v.id),
			slog.String("error", err.Error()))
		records = nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		v.LogDebug(ctx, "Discarding account list for closed view", slog.String("view_id", v.id))
		return apperrors.ErrViewClosed
	}
	if seq < v.appliedSeq {
		v.LogDebug(ctx, "Discarding stale account list",
			slog.String("view_id", v.id),
			slog.Uint64("load_seq", seq),
			slog.Uint64("applied_seq", v.appliedSeq))
		return nil
	}
	v.applyLocked(ctx, records)
	v.appliedSeq = seq
	if malformed {
		v.pushLocked(domain.NotifyWarning, apperrors.UserMessage(err))
	}

	v.LogDebug(ctx, "Chart of accounts loaded",
		slog.String("view_id", v.id),
		slog.Int("count", len(v.records)))
	return nil
}

// applyLocked replaces the record set and rebuilds the tree. Expansion falls
// back to the default rule for every node.
func (v *chartView) applyLocked(ctx context.Context, records []domain.AccountRecord) {
	sorted := accounttree.SortRecords(records)
	forest := accounttree.BuildForest(sorted)
	if forest.HasWarnings() {
		v.LogWarn(ctx, "Chart of accounts has inconsistent parent references",
			slog.String("view_id", v.id),
			slog.Any("orphaned_ids", forest.Orphaned),
			slog.Any("cycle_break_ids", forest.CycleBreaks),
			slog.Any("duplicate_ids", forest.Duplicates))
	}
	v.records = sorted
	v.forest = forest.Roots
	v.loaded = true
	v.expanded = make(map[int]bool)
	v.expandToMatchesLocked()
}

func (v *chartView) Snapshot() domain.ChartSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastActive = v.now()

	tree := accounttree.FilterTree(v.forest, v.search)
	snap := domain.ChartSnapshot{
		ViewID:        v.id,
		Loaded:        v.loaded,
		SearchTerm:    v.search,
		Tree:          tree,
		Rows:          []domain.VisibleRow{},
		TotalAccounts: domain.CountNodes(v.forest),
		MatchCount:    len(accounttree.MatchingIDs(v.forest, v.search)),
	}
	var appendRows func(nodes []*domain.AccountNode)
	appendRows = func(nodes []*domain.AccountNode) {
		for _, n := range nodes {
			open := v.isExpandedLocked(n)
			snap.Rows = append(snap.Rows, domain.VisibleRow{
				Node:        n,
				Expanded:    open,
				HasChildren: n.HasChildren(),
			})
			if open {
				appendRows(n.Children)
			}
		}
	}
	appendRows(tree)
	return snap
}

func (v *chartView) isExpandedLocked(n *domain.AccountNode) bool {
	if open, ok := v.expanded[n.AccountID]; ok {
		return open
	}
	return n.LevelNo == 0
}

func (v *chartView) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastActive = v.now()
	v.search = strings.TrimSpace(term)
	v.expandToMatchesLocked()
}

// expandToMatchesLocked opens every ancestor of a direct search hit.
func (v *chartView) expandToMatchesLocked() {
	hits := accounttree.MatchingIDs(v.forest, v.search)
	for _, id := range accounttree.AncestorIDs(v.forest, hits) {
		v.expanded[id] = true
	}
}

func (v *chartView) Toggle(accountID int) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastActive = v.now()

	node, ok := accounttree.FindNode(v.forest, accountID)
	if !ok {
		return false, fmt.Errorf("%w: account %d is not in this view", apperrors.ErrNotFound, accountID)
	}
	open := !v.isExpandedLocked(node)
	v.expanded[accountID] = open
	return open, nil
}

func (v *chartView) ExpandAll() {
	v.setExpansion(func(*domain.AccountNode) bool { return true })
}

func (v *chartView) CollapseAll() {
	v.setExpansion(func(*domain.AccountNode) bool { return false })
}

func (v *chartView) ExpandToLevel(level int) {
	v.setExpansion(func(n *domain.AccountNode) bool { return n.LevelNo < level })
}

func (v *chartView) setExpansion(open func(*domain.AccountNode) bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastActive = v.now()
	for _, root := range v.forest {
		root.Walk(func(n *domain.AccountNode) bool {
			v.expanded[n.AccountID] = open(n)
			return true
		})
	}
}

func (v *chartView) HandleAddAccount(parentID int) (domain.AccountForm, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastActive = v.now()

	form := domain.AccountForm{
		Mode:          domain.FormCreate,
		Draft:         domain.AccountDraft{ParentAccountID: parentID},
		ParentOptions: accounttree.ParentOptions(v.forest, 0),
	}
	if parentID == 0 {
		return form, nil
	}
	parentType, err := accounttree.ResolveAccountType("", parentID, v.records)
	if err != nil {
		v.pushLocked(domain.NotifyError, apperrors.UserMessage(err))
		return domain.AccountForm{}, err
	}
	form.Draft.AccountType = parentType
	form.TypeLocked = true
	return form, nil
}

func (v *chartView) HandleEditAccount(accountID int) (domain.AccountForm, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastActive = v.now()

	node, ok := accounttree.FindNode(v.forest, accountID)
	if !ok {
		err := fmt.Errorf("%w: account %d is not in this view", apperrors.ErrNotFound, accountID)
		v.pushLocked(domain.NotifyError, apperrors.UserMessage(err))
		return domain.AccountForm{}, err
	}
	return domain.AccountForm{
		Mode: domain.FormEdit,
		Draft: domain.AccountDraft{
			AccountID:       node.AccountID,
			AccountCode:     node.AccountCode,
			AccountName:     node.AccountName,
			AccountType:     node.AccountType,
			ParentAccountID: node.ParentAccountID,
		},
		TypeLocked:    !node.IsTopLevel() || node.HasChildren(),
		ParentOptions: accounttree.ParentOptions(v.forest, node.AccountID),
	}, nil
}

func (v *chartView) SubmitCreate(ctx context.Context, draft domain.AccountDraft) (int, error) {
	records, _, err := v.beginMutation()
	if err != nil {
		return 0, err
	}

	draft = normalizeDraft(draft)
	if err := validateDraft(draft); err != nil {
		return 0, v.fail(ctx, err, "Rejected account create")
	}
	if err := accounttree.ValidateParentChoice(0, draft.ParentAccountID, records); err != nil {
		return 0, v.fail(ctx, err, "Rejected account create", slog.Int("parent_account_id", draft.ParentAccountID))
	}
	accountType, err := accounttree.ResolveAccountType(draft.AccountType, draft.ParentAccountID, records)
	if err != nil {
		return 0, v.fail(ctx, err, "Rejected account create", slog.Int("parent_account_id", draft.ParentAccountID))
	}
	if !accountType.IsValid() {
		err := fmt.Errorf("%w: account type is required for a top-level account", apperrors.ErrValidation)
		return 0, v.fail(ctx, err, "Rejected account create")
	}
	draft.AccountType = accountType

	accountID, err := v.accountRepo.CreateAccount(ctx, draft)
	if err != nil {
		return 0, v.fail(ctx, err, "Failed to create account", slog.String("account_name", draft.AccountName))
	}

	v.LogInfo(ctx, "Account created successfully",
		slog.String("view_id", v.id),
		slog.Int("account_id", accountID),
		slog.String("account_type", string(accountType)))
	v.push(domain.NotifySuccess, fmt.Sprintf("Account %q created.", draft.AccountName))
	v.reloadAfterMutation(ctx)
	return accountID, nil
}

func (v *chartView) SubmitUpdate(ctx context.Context, draft domain.AccountDraft) error {
	records, forest, err := v.beginMutation()
	if err != nil {
		return err
	}

	draft = normalizeDraft(draft)
	node, ok := accounttree.FindNode(forest, draft.AccountID)
	if !ok {
		err := fmt.Errorf("%w: account %d is not in this view", apperrors.ErrNotFound, draft.AccountID)
		return v.fail(ctx, err, "Rejected account update")
	}
	if err := validateDraft(draft); err != nil {
		return v.fail(ctx, err, "Rejected account update", slog.Int("account_id", draft.AccountID))
	}
	if err := accounttree.ValidateParentChoice(draft.AccountID, draft.ParentAccountID, records); err != nil {
		return v.fail(ctx, err, "Rejected account update",
			slog.Int("account_id", draft.AccountID),
			slog.Int("parent_account_id", draft.ParentAccountID))
	}

	accountType, err := updatedAccountType(node, draft, records)
	if err != nil {
		return v.fail(ctx, err, "Rejected account update", slog.Int("account_id", draft.AccountID))
	}
	draft.AccountType = accountType

	if err := v.accountRepo.UpdateAccount(ctx, draft); err != nil {
		return v.fail(ctx, err, "Failed to update account", slog.Int("account_id", draft.AccountID))
	}

	v.LogInfo(ctx, "Account updated successfully",
		slog.String("view_id", v.id),
		slog.Int("account_id", draft.AccountID))
	v.push(domain.NotifySuccess, fmt.Sprintf("Account %q updated.", draft.AccountName))
	v.reloadAfterMutation(ctx)
	return nil
}

// updatedAccountType applies the edit rule: the stored type is kept unless the
// parent changes. A root that stays a root may take the operator's type, a
// moved account takes its new parent's type, and an account with sub-accounts
// can never change type because its descendants would stop matching their root.
func updatedAccountType(node *domain.AccountNode, draft domain.AccountDraft, records []domain.AccountRecord) (domain.AccountType, error) {
	chosen := draft.AccountType
	if chosen == "" {
		chosen = node.AccountType
	}

	var accountType domain.AccountType
	switch {
	case draft.ParentAccountID != node.ParentAccountID:
		resolved, err := accounttree.ResolveAccountType(chosen, draft.ParentAccountID, records)
		if err != nil {
			return "", err
		}
		accountType = resolved
	case draft.ParentAccountID == 0:
		accountType = chosen
	default:
		accountType = node.AccountType
	}

	if !accountType.IsValid() {
		return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
	if accountType != node.AccountType && node.HasChildren() {
		return "", fmt.Errorf("%w: the type of an account with sub-accounts cannot change", apperrors.ErrValidation)
	}
	return accountType, nil
}

func (v *chartView) DeleteAccount(ctx context.Context, accountID int) error {
	_, forest, err := v.beginMutation()
	if err != nil {
		return err
	}

	node, ok := accounttree.FindNode(forest, accountID)
	if !ok {
		err := fmt.Errorf("%w: account %d is not in this view", apperrors.ErrNotFound, accountID)
		return v.fail(ctx, err, "Rejected account delete")
	}
	if node.HasChildren() {
		err := fmt.Errorf("%w: delete or move the sub-accounts of %q first", apperrors.ErrValidation, node.AccountName)
		return v.fail(ctx, err, "Rejected account delete", slog.Int("account_id", accountID))
	}

	if err := v.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		return v.fail(ctx, err, "Failed to delete account", slog.Int("account_id", accountID))
	}

	v.LogInfo(ctx, "Account deleted successfully",
		slog.String("view_id", v.id),
		slog.Int("account_id", accountID))
	v.push(domain.NotifySuccess, fmt.Sprintf("Account %q deleted.", node.AccountName))
	v.reloadAfterMutation(ctx)
	return nil
}

// beginMutation returns the current record set and tree. Both are replaced
// wholesale on reload and never modified, so they can be read without the lock.
func (v *chartView) beginMutation() ([]domain.AccountRecord, []*domain.AccountNode, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, nil, apperrors.ErrViewClosed
	}
	v.lastActive = v.now()
	return v.records, v.forest, nil
}

// reloadAfterMutation refreshes the tree after a successful write. A failed
// reload is already reported as a notification and does not undo the write.
func (v *chartView) reloadAfterMutation(ctx context.Context) {
	if err := v.Load(ctx); err != nil && !errors.Is(err, apperrors.ErrViewClosed) {
		v.LogWarn(ctx, "Reload after mutation failed", slog.String("view_id", v.id))
	}
}

func (v *chartView) Notifications() []domain.Notification {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.toasts
	v.toasts = nil
	if out == nil {
		out = []domain.Notification{}
	}
	return out
}

func (v *chartView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.toasts = nil
}

func (v *chartView) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastActive
}

// fail logs err, queues it as an error notification and returns it.
func (v *chartView) fail(ctx context.Context, err error, msg string, keyvals ...any) error {
	args := append([]any{slog.String("view_id", v.id)}, keyvals...)
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrInvalidParentReference) ||
		errors.Is(err, apperrors.ErrNotFound) {
		v.LogWarn(ctx, msg, append(args, slog.String("error", err.Error()))...)
	} else {
		v.LogError(ctx, err, msg, args...)
	}
	v.push(domain.NotifyError, apperrors.UserMessage(err))
	return err
}

func (v *chartView) push(level domain.NotificationLevel, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pushLocked(level, message)
}

func (v *chartView) pushLocked(level domain.NotificationLevel, message string) {
	if v.closed {
		return
	}
	v.toasts = append(v.toasts, domain.Notification{
		Level:     level,
		Message:   message,
		CreatedAt: v.now(),
	})
}

func normalizeDraft(draft domain.AccountDraft) domain.AccountDraft {
	draft.AccountName = strings.TrimSpace(draft.AccountName)
	draft.AccountCode = strings.TrimSpace(draft.AccountCode)
	draft.AccountType = domain.NormalizeAccountType(string(draft.AccountType))
	return draft
}

func validateDraft(draft domain.AccountDraft) error {
	if err := draftValidator.Struct(draft); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, describeFieldError(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := map[string]string{
		"AccountName":     "account name",
		"AccountCode":     "account code",
		"AccountType":     "account type",
		"ParentAccountID": "parent account",
	}[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
