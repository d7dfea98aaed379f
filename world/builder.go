package world

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/fujix-tas/fujix/assert"
	"github.com/fujix-tas/fujix/game"
	"github.com/go-gl/mathgl/mgl32"
)

// Builder assembles the layers of a World. A Builder must not be used after Build.
type Builder struct {
	width, height int

	game     []TileKind
	tele     []TeleTile
	switches []SwitchTile

	spawn    mgl32.Vec2
	hasSpawn bool
}

func NewBuilder(width, height int) *Builder {
	assert.IsTrue(width > 0 && height > 0, "world: invalid dimensions %dx%d", width, height)
	n := width * height
	return &Builder{
		width:    width,
		height:   height,
		game:     make([]TileKind, n),
		tele:     make([]TeleTile, n),
		switches: make([]SwitchTile, n),
	}
}

func (b *Builder) index(x, y int) int {
	assert.IsTrue(x >= 0 && y >= 0 && x < b.width && y < b.height, "world: tile (%d, %d) outside %dx%d", x, y, b.width, b.height)
	return y*b.width + x
}

func (b *Builder) SetTile(x, y int, kind TileKind) *Builder {
	b.game[b.index(x, y)] = kind
	return b
}

// FillRect sets every tile in the inclusive rectangle.
func (b *Builder) FillRect(x0, y0, x1, y1 int, kind TileKind) *Builder {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			b.SetTile(x, y, kind)
		}
	}
	return b
}

func (b *Builder) SetTele(x, y int, tele TeleTile) *Builder {
	b.tele[b.index(x, y)] = tele
	return b
}

func (b *Builder) SetSwitch(x, y int, sw SwitchTile) *Builder {
	b.switches[b.index(x, y)] = sw
	return b
}

func (b *Builder) SetSpawn(x, y int) *Builder {
	b.index(x, y)
	b.spawn, b.hasSpawn = TileCenter(x, y), true
	return b
}

func (b *Builder) Build() *World {
	w := &World{
		width:    b.width,
		height:   b.height,
		game:     b.game,
		tele:     b.tele,
		switches: b.switches,
		teleOuts: make(map[uint8][]mgl32.Vec2),
		spawn:    b.spawn,
		hasSpawn: b.hasSpawn,
		bounds:   cube.Box(0, 0, 0, float32(b.width)*game.TileSize, float32(b.height)*game.TileSize, 0),
	}
	for idx, t := range b.tele {
		if t.Kind == TeleOut {
			w.teleOuts[t.Group] = append(w.teleOuts[t.Group], TileCenter(idx%b.width, idx/b.width))
		}
	}
	return w
}

// ParseASCII builds a world from a text grid, one character per tile. Rows shorter than the widest
// row are padded with air.
//
//	. or space  air             #  solid          N  unhookable solid
//	F  freeze                   D  deep freeze    d  undeep
//	L  live freeze              l  live unfreeze  U  unfreeze
//	S  spawn                    T  tele in (1)    E  evil tele in (1)   O  tele out (1)
//	J  unlimited jump switch    j  single jump switch
//	>  speedup pushing right
func ParseASCII(src string) (*World, error) {
	var rows []string
	scanner := bufio.NewScanner(strings.NewReader(src))
	width := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		rows = append(rows, line)
		width = max(width, len(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	if len(rows) == 0 || width == 0 {
		return nil, fmt.Errorf("map is empty")
	}

	b := NewBuilder(width, len(rows))
	for y, row := range rows {
		for x, c := range []byte(row) {
			switch c {
			case '.', ' ':
			case '#':
				b.SetTile(x, y, TileSolid)
			case 'N':
				b.SetTile(x, y, TileNoHook)
			case 'F':
				b.SetTile(x, y, TileFreeze)
			case 'D':
				b.SetTile(x, y, TileDeepFreeze)
			case 'd':
				b.SetTile(x, y, TileUndeep)
			case 'L':
				b.SetTile(x, y, TileLiveFreeze)
			case 'l':
				b.SetTile(x, y, TileLiveUnfreeze)
			case 'U':
				b.SetTile(x, y, TileUnfreeze)
			case 'S':
				b.SetSpawn(x, y)
			case 'T':
				b.SetTele(x, y, TeleTile{Kind: TeleIn, Group: 1})
			case 'E':
				b.SetTele(x, y, TeleTile{Kind: TeleInEvil, Group: 1})
			case 'O':
				b.SetTele(x, y, TeleTile{Kind: TeleOut, Group: 1})
			case 'J':
				b.SetSwitch(x, y, SwitchTile{Kind: SwitchJump, Delay: game.JumpSwitchUnlimited})
			case 'j':
				b.SetSwitch(x, y, SwitchTile{Kind: SwitchJump, Delay: 1})
			case '>':
				b.SetSwitch(x, y, SwitchTile{Kind: SwitchSpeedup, Delay: 2})
			default:
				return nil, fmt.Errorf("unknown map character %q at (%d, %d)", c, x, y)
			}
		}
	}
	return b.Build(), nil
}
