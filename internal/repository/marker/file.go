package marker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/llc-launcher/internal/domain/release"
)

const (
	// versionField is the JSON key holding the installed version.
	versionField = "version"

	// filePermissions is used for the marker file.
	filePermissions = 0o644
	// dirPermissions is used for the Info directory.
	dirPermissions = 0o755

	// maxExactInteger is the largest integer a JSON number keeps exactly.
	maxExactInteger = 1 << 53
)

// Repository defines persistence operations for the installed version.
type Repository interface {
	Load(ctx context.Context) (release.Version, error)
	Save(ctx context.Context, version release.Version) error
}

var (
	// ErrNotFound is returned when no marker has been written yet.
	ErrNotFound = errors.New("install marker not found")
	// ErrNoVersion is returned when the marker exists but carries no usable version.
	ErrNoVersion = errors.New("install marker has no version")
)

// FileRepository keeps the marker in Info/version.json inside the content
// directory. The file is a free-form JSON object: fields other than version
// are kept as they are when the version is rewritten.
type FileRepository struct {
	// path is the filesystem location of the marker.
	path string
	// mu serializes access to the marker file.
	mu sync.Mutex
}

// PathIn returns the marker location for a content directory.
func PathIn(contentDir string) string {
	return filepath.Join(contentDir, "Info", "version.json")
}

// NewFileRepository creates a repository that reads/writes the marker at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the marker location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the installed version. The version may be stored as a JSON
// string or number.
func (r *FileRepository) Load(_ context.Context) (release.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.read()
	if err != nil {
		return release.Version{}, err
	}

	value, ok := document.GetFields()[versionField]
	if !ok {
		return release.Version{}, ErrNoVersion
	}

	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		version := release.ParseVersion(kind.StringValue)
		if version.IsZero() {
			return release.Version{}, ErrNoVersion
		}

		return version, nil
	case *structpb.Value_NumberValue:
		return numberVersion(kind.NumberValue)
	default:
		return release.Version{}, fmt.Errorf("%w: unsupported %T", ErrNoVersion, kind)
	}
}

// Save rewrites the marker with version. The new content is written to a
// temporary file first and renamed over the marker.
func (r *FileRepository) Save(_ context.Context, version release.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.read()
	if err != nil {
		document = new(structpb.Struct)
	}

	if document.Fields == nil {
		document.Fields = make(map[string]*structpb.Value, 1)
	}

	if n, ok := version.Number(); ok {
		document.Fields[versionField] = structpb.NewNumberValue(float64(n))
	} else {
		document.Fields[versionField] = structpb.NewStringValue(version.String())
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline:       true,
		EmitUnpopulated: true,
	}

	data, err := marshalOptions.Marshal(document)
	if err != nil {
		return fmt.Errorf("encode install marker: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(r.path), dirPermissions); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(r.path), err)
	}

	temporary := r.path + ".tmp"
	if err = os.WriteFile(temporary, data, filePermissions); err != nil {
		return fmt.Errorf("write install marker: %w", err)
	}

	if err = os.Rename(temporary, r.path); err != nil {
		_ = os.Remove(temporary)

		return fmt.Errorf("replace install marker: %w", err)
	}

	return nil
}

// read loads and decodes the marker document.
func (r *FileRepository) read() (*structpb.Struct, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read install marker: %w", err)
	}

	var document structpb.Struct
	if err = protojson.Unmarshal(contents, &document); err != nil {
		return nil, fmt.Errorf("decode install marker: %w", err)
	}

	return &document, nil
}

// numberVersion converts a JSON number into a counter version.
func numberVersion(n float64) (release.Version, error) {
	if n < 0 || n != math.Trunc(n) || n > maxExactInteger {
		return release.ParseVersion(strconv.FormatFloat(n, 'f', -1, 64)), nil
	}

	return release.NumberVersion(uint64(n)), nil
}
