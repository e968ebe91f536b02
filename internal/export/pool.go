package export

import (
	"sync"

	"github.com/san-kum/morphcontours/internal/render"
)

// framePool recycles export surfaces; a 1440p RGBA buffer is 8 MB.
type framePool struct {
	pool sync.Pool
	size int
}

func newFramePool(size int) *framePool {
	return &framePool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return render.NewImage(size, size)
			},
		},
	}
}

func (p *framePool) Get() *render.Image {
	return p.pool.Get().(*render.Image)
}

func (p *framePool) Put(img *render.Image) {
	if w, h := img.Size(); w == p.size && h == p.size {
		p.pool.Put(img)
	}
}
