package ppu

// renderScanline composes one full row of the framebuffer (background,
// window, sprites) when Mode 3 begins for the current line. Cycle-exact
// per-dot emission is not modeled; the visible result is equivalent to
// what the real fetcher would have produced. Each background/window
// pixel passes through the background FIFO, pushed and popped in the same
// column rather than queued across dots; sprite pixels are resolved per
// column without a FIFO.
func (p *PPU) renderScanline() {
	if p.ly >= ScreenHeight {
		return
	}

	windowActiveThisLine := p.windowTriggeredThisLine()
	windowDrawn := false

	p.bg.reset()
	p.sprite.reset()
	for x := uint8(0); x < ScreenWidth; x++ {
		useWindow := windowActiveThisLine && x+7 >= p.wx
		var bgPixel pixel
		if useWindow {
			bgPixel = p.fetchWindowPixel(x)
			windowDrawn = true
		} else if p.lcdc&lcdcBGEnable != 0 || p.isCGB {
			bgPixel = p.fetchBGPixel(x)
		}
		p.bg.push(bgPixel)
		bgPx, _ := p.bg.pop()
		finalColor := p.resolveBGColor(bgPx)

		if p.lcdc&lcdcObjEnable != 0 {
			if sp, ok := p.fetchSpritePixel(x); ok {
				if p.spriteWins(sp, bgPx) {
					finalColor = p.resolveSpriteColor(sp)
				}
			}
		}
		p.FrameBuffer[p.ly][x] = finalColor
	}
	if windowDrawn {
		p.windowLine++
	}
}

func (p *PPU) fetchBGPixel(x uint8) pixel {
	tileMapBase := uint16(0x9800)
	if p.lcdc&lcdcBGTileMap != 0 {
		tileMapBase = 0x9C00
	}
	y := p.scy + p.ly
	col := (p.scx + x) / 8 % 32
	row := y / 8 % 32
	mapAddr := tileMapBase + uint16(row)*32 + uint16(col)
	tileIdx := p.vram[0][mapAddr-0x8000]

	var attr uint8
	if p.isCGB {
		attr = p.vram[1][mapAddr-0x8000]
	}

	tileY := y % 8
	tileX := (p.scx + x) % 8
	return p.decodeTilePixel(tileIdx, attr, tileY, tileX)
}

func (p *PPU) fetchWindowPixel(x uint8) pixel {
	tileMapBase := uint16(0x9800)
	if p.lcdc&lcdcWindowTileMap != 0 {
		tileMapBase = 0x9C00
	}
	col := uint16(x+7-p.wx) / 8 % 32
	row := uint16(p.windowLine) / 8 % 32
	mapAddr := tileMapBase + row*32 + col

	tileIdx := p.vram[0][mapAddr-0x8000]
	var attr uint8
	if p.isCGB {
		attr = p.vram[1][mapAddr-0x8000]
	}

	tileY := uint8(p.windowLine % 8)
	tileX := (x + 7 - p.wx) % 8
	return p.decodeTilePixel(tileIdx, attr, tileY, tileX)
}

func (p *PPU) decodeTilePixel(tileIdx, attr, tileY, tileX uint8) pixel {
	if attr&0x40 != 0 { // vertical flip
		tileY = 7 - tileY
	}
	if attr&0x20 != 0 { // horizontal flip
		tileX = 7 - tileX
	}

	bank := uint8(0)
	if p.isCGB && attr&0x08 != 0 {
		bank = 1
	}

	addr := tileDataAddr(p.lcdc&lcdcTileDataSelect != 0, tileIdx)
	lo := p.vram[bank][addr+uint16(tileY)*2-0x8000]
	hi := p.vram[bank][addr+uint16(tileY)*2+1-0x8000]

	bit := 7 - tileX
	color := ((hi>>bit)&1)<<1 | (lo>>bit)&1

	return pixel{color: color, palette: attr & 0x07, priority: attr&0x80 != 0, bgIndex: color}
}

// tileDataAddr returns the VRAM address of the start of the given tile,
// accounting for the signed addressing mode used when LCDC bit 4 is
// clear (tiles indexed relative to 0x9000).
func tileDataAddr(unsignedMode bool, tileIdx uint8) uint16 {
	if unsignedMode {
		return 0x8000 + uint16(tileIdx)*16
	}
	return uint16(int32(0x9000) + int32(int8(tileIdx))*16)
}

func (p *PPU) resolveBGColor(px pixel) [3]uint8 {
	if p.isCGB {
		return p.bgPalette.color555(px.palette, px.color)
	}
	shades := decodeDMGPalette(p.bgp)
	return dmgShade[shades[px.color]]
}

func (p *PPU) fetchSpritePixel(x uint8) (pixel, bool) {
	height := uint8(8)
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}

	for _, s := range p.sprites {
		screenX := int(s.x) - 8
		local := int(x) - screenX
		if local < 0 || local >= 8 {
			continue
		}
		row := int(p.ly) - (int(s.y) - 16)
		if s.attr&0x40 != 0 { // Y flip
			row = int(height) - 1 - row
		}
		tile := s.tile
		if height == 16 {
			tile &= 0xFE
			if row >= 8 {
				tile |= 1
				row -= 8
			}
		}
		col := local
		if s.attr&0x20 != 0 { // X flip
			col = 7 - col
		}

		bank := uint8(0)
		if p.isCGB && s.attr&0x08 != 0 {
			bank = 1
		}
		addr := 0x8000 + uint16(tile)*16
		lo := p.vram[bank][addr+uint16(row)*2-0x8000]
		hi := p.vram[bank][addr+uint16(row)*2+1-0x8000]
		bit := 7 - uint8(col)
		color := ((hi>>bit)&1)<<1 | (lo>>bit)&1
		if color == 0 {
			continue // transparent, keep scanning lower-priority sprites
		}
		return pixel{
			color:    color,
			palette:  s.attr & 0x07,
			dmgOBP1:  s.attr&0x10 != 0,
			priority: s.attr&0x80 != 0,
		}, true
	}
	return pixel{}, false
}

func (p *PPU) spriteWins(sp pixel, bg pixel) bool {
	if !sp.priority {
		return true
	}
	// OBJ-behind-BG: only visible over BG color 0. The CGB BG-map priority
	// attribute is not consulted.
	return bg.bgIndex == 0
}

func (p *PPU) resolveSpriteColor(sp pixel) [3]uint8 {
	if p.isCGB {
		return p.objPalette.color555(sp.palette&0x07, sp.color)
	}
	var reg uint8
	if sp.dmgOBP1 {
		reg = p.obp1
	} else {
		reg = p.obp0
	}
	shades := decodeDMGPalette(reg)
	return dmgShade[shades[sp.color]]
}
