package system

import (
	"image"
	"sync"
)

// FramePool переиспользует кадровые буферы одного размера, чтобы
// параллельное кодирование не нагружало GC: все сегменты прогона
// рендерятся в одном разрешении.
type FramePool struct {
	width  int
	height int
	pool   sync.Pool
}

func NewFramePool(width, height int) *FramePool {
	return &FramePool{
		width:  width,
		height: height,
		pool: sync.Pool{
			New: func() interface{} {
				return image.NewRGBA(image.Rect(0, 0, width, height))
			},
		},
	}
}

func (p *FramePool) Width() int  { return p.width }
func (p *FramePool) Height() int { return p.height }

// Get возвращает кадровый буфер из пула или создает новый
func (p *FramePool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

// Put возвращает буфер в пул для повторного использования
func (p *FramePool) Put(img *image.RGBA) {
	if img != nil {
		p.pool.Put(img)
	}
}
