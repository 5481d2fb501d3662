package attachment

import (
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

var (
	ErrIsDir    = errors.New("attachment is a directory")
	ErrTooLarge = errors.New("attachment is too large")
)

// DefaultMaxSize is the largest file Stage accepts when no limit is given.
const DefaultMaxSize = 25 << 20

// Stager acquires transient handles on local files staged for sending.
type Stager struct {
	maxSize int64
	open    int64
}

func NewStager(maxSize int64) *Stager {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Stager{maxSize: maxSize}
}

// Open is the number of handles acquired and not yet released.
func (s *Stager) Open() int {
	return int(atomic.LoadInt64(&s.open))
}

// Stage opens the file at path and keeps it open until the returned handle is released.
func (s *Stager) Stage(path string) (*Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving attachment path")
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, errors.Wrap(err, "opening attachment")
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "reading attachment info")
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, ErrIsDir
	}
	if fi.Size() > s.maxSize {
		_ = f.Close()
		return nil, ErrTooLarge
	}

	atomic.AddInt64(&s.open, 1)
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return &Handle{
		stager: s,
		file:   f,
		name:   fi.Name(),
		url:    u.String(),
		size:   fi.Size(),
	}, nil
}

// Handle is a staged attachment. Release is safe to call more than once.
type Handle struct {
	stager *Stager
	file   *os.File
	name   string
	url    string
	size   int64

	once     sync.Once
	released int32
}

func (h *Handle) Name() string { return h.name }
func (h *Handle) URL() string  { return h.url }
func (h *Handle) Size() int64  { return h.size }

func (h *Handle) Released() bool {
	return atomic.LoadInt32(&h.released) == 1
}

func (h *Handle) Release() error {
	if h == nil {
		return nil
	}
	var err error
	h.once.Do(func() {
		err = h.file.Close()
		atomic.StoreInt32(&h.released, 1)
		atomic.AddInt64(&h.stager.open, -1)
	})
	return err
}
