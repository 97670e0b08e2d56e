package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashgraph-online/media-mint-go/pkg/metadata"
	"github.com/hashgraph-online/media-mint-go/pkg/mint"
	"github.com/hashgraph-online/media-mint-go/pkg/shared"
	"github.com/hashgraph-online/media-mint-go/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	Uploader Uploader
	Minter   Minter
	// Address is credited as the only creator when a plan names none.
	Address  string
	Logger   *zap.Logger
	Progress ProgressFunc
	// Parallel is the number of concurrent asset uploads. Zero or one uploads the assets
	// one at a time in plan order.
	Parallel int
	Clock    func() time.Time
}

// UploadedAsset is a plan asset after a successful upload.
type UploadedAsset struct {
	Key      string
	Category string
	CDN      *bool
	storage.Asset
}

type Outcome struct {
	RunID         string
	Stage         Stage
	Assets        []UploadedAsset
	Metadata      metadata.Document
	MetadataAsset storage.Asset
	Mint          mint.Result
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Asset returns the uploaded asset declared under key.
func (o Outcome) Asset(key string) (UploadedAsset, bool) {
	for _, asset := range o.Assets {
		if asset.Key == key {
			return asset, true
		}
	}
	return UploadedAsset{}, false
}

type run struct {
	id       string
	stage    Stage
	logger   *zap.Logger
	progress ProgressFunc
}

func (r *run) transition(to Stage, err error) {
	from := r.stage
	r.stage = to
	if err != nil {
		r.logger.Error("stage failed", zap.String("stage", string(from)), zap.Error(err))
	} else {
		r.logger.Debug("stage", zap.String("from", string(from)), zap.String("to", string(to)))
	}
	if r.progress != nil {
		r.progress(Event{RunID: r.id, From: from, To: to, Err: err})
	}
}

func (r *Runner) newRun() *run {
	id := uuid.NewString()
	return &run{
		id:       id,
		stage:    StageIdle,
		logger:   shared.LoggerOrNop(r.Logger).With(zap.String("run_id", id)),
		progress: r.Progress,
	}
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

// Run executes plan from validation to mint. On failure the returned error is a
// *StageError and the outcome holds whatever completed before it.
func (r *Runner) Run(ctx context.Context, plan Plan) (Outcome, error) {
	state := r.newRun()
	outcome := Outcome{RunID: state.id, Stage: StageIdle, StartedAt: r.now()}

	fail := func(err error) (Outcome, error) {
		failedStage := state.stage
		state.transition(StageFailed, err)
		outcome.Stage = StageFailed
		outcome.FinishedAt = r.now()
		return outcome, &StageError{Stage: failedStage, Err: err}
	}

	state.transition(StageValidatingInputs, nil)
	if r.Uploader == nil || r.Minter == nil {
		return fail(fmt.Errorf("runner needs an uploader and a minter"))
	}
	resolved, err := plan.validate()
	if err != nil {
		return fail(err)
	}
	if err := r.checkMetadataURI(plan); err != nil {
		return fail(err)
	}

	// Captured before the uploads; Mint refreshes it if the uploads outlast its window.
	txContext := r.Minter.NewTxContext()

	state.transition(StageUploadingAssets, nil)
	uploaded, err := r.uploadAssets(ctx, state.logger, resolved, plan.UploadTags)
	if err != nil {
		return fail(err)
	}
	outcome.Assets = uploaded

	state.transition(StageAssemblingMetadata, nil)
	document, err := r.assemble(plan, uploaded)
	if err != nil {
		return fail(err)
	}
	outcome.Metadata = document

	state.transition(StageUploadingMetadata, nil)
	metadataAsset, err := storage.UploadJSON(ctx, r.Uploader, plan.metadataName(), document)
	if err != nil {
		return fail(err)
	}
	outcome.MetadataAsset = metadataAsset
	state.logger.Info("metadata uploaded", zap.String("uri", metadataAsset.URI))

	state.transition(StageMinting, nil)
	result, err := r.Minter.Mint(ctx, txContext, mint.Request{
		Name:        plan.Name,
		MetadataURI: metadataAsset.URI,
		Memo:        plan.Memo,
	})
	if err != nil {
		return fail(err)
	}
	outcome.Mint = result

	state.transition(StageDone, nil)
	outcome.Stage = StageDone
	outcome.FinishedAt = r.now()
	state.logger.Info("run complete",
		zap.String("asset", result.AssetAddress),
		zap.String("transaction_id", result.TransactionID),
		zap.Duration("elapsed", outcome.FinishedAt.Sub(outcome.StartedAt)),
	)
	return outcome, nil
}

// checkMetadataURI rejects a plan whose metadata URI could not be minted, for backends
// that can tell the URI length before uploading.
func (r *Runner) checkMetadataURI(plan Plan) error {
	predictor, ok := r.Uploader.(storage.URIPredictor)
	if !ok {
		return nil
	}
	length := predictor.PredictURILength(plan.metadataName(), "application/json")
	if length <= mint.MaxMetadataBytes {
		return nil
	}
	return &mint.MintError{
		Reason: fmt.Sprintf("metadata URI would be %d bytes, limit is %d", length, mint.MaxMetadataBytes),
	}
}

func (r *Runner) uploadAssets(
	ctx context.Context,
	logger *zap.Logger,
	assets []resolvedAsset,
	tags map[string]string,
) ([]UploadedAsset, error) {
	results := make([]UploadedAsset, len(assets))
	uploadOne := func(ctx context.Context, index int) error {
		spec := assets[index].spec
		asset, err := storage.UploadFile(ctx, r.Uploader, spec.Path, spec.Name, assets[index].mimeType, tags)
		if err != nil {
			return err
		}
		logger.Info("asset uploaded",
			zap.String("key", spec.Key),
			zap.String("uri", asset.URI),
			zap.String("mime_type", asset.MimeType),
		)
		results[index] = UploadedAsset{Key: spec.Key, Category: spec.Category, CDN: spec.CDN, Asset: asset}
		return nil
	}

	if r.Parallel <= 1 {
		for index := range assets {
			if err := uploadOne(ctx, index); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.Parallel)
	for index := range assets {
		group.Go(func() error {
			return uploadOne(groupCtx, index)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) assemble(plan Plan, uploaded []UploadedAsset) (metadata.Document, error) {
	byKey := make(map[string]UploadedAsset, len(uploaded))
	for _, asset := range uploaded {
		byKey[asset.Key] = asset
	}

	image := byKey[strings.TrimSpace(plan.ImageKey)]
	builder := metadata.NewBuilder().
		SetName(plan.Name).
		SetDescription(plan.Description).
		SetImage(image.URI).
		SetAttributes(plan.Attributes)

	primaryType := image.MimeType
	if key := strings.TrimSpace(plan.AnimationKey); key != "" {
		builder.SetAnimationURL(byKey[key].URI)
		primaryType = byKey[key].MimeType
	}
	if key := strings.TrimSpace(plan.ExternalKey); key != "" {
		builder.SetExternalURL(byKey[key].URI)
	} else {
		builder.SetExternalURL(plan.ExternalURL)
	}

	for _, asset := range uploaded {
		builder.AddFile(metadata.File{
			URI:      asset.URI,
			Type:     asset.MimeType,
			Category: asset.Category,
			CDN:      asset.CDN,
		})
	}

	category := strings.TrimSpace(plan.Category)
	if category == "" {
		category = metadata.CategoryFor(primaryType)
	}
	builder.SetCategory(category)

	creators := plan.Creators
	if len(creators) == 0 && strings.TrimSpace(r.Address) != "" {
		creators = metadata.SingleCreator(r.Address)
	}
	builder.SetCreators(creators)

	if plan.Collection != nil {
		builder.SetCollection(plan.Collection.Name, plan.Collection.Family)
	}
	for _, tag := range plan.Tags {
		builder.AddTag(tag)
	}
	for key, value := range plan.Media {
		builder.SetMedia(key, value)
	}
	for key, value := range plan.Technical {
		builder.SetTechnical(key, value)
	}

	return builder.Build()
}
