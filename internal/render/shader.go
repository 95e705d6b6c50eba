package render

// BlendShaderSource returns the Kage program implementing the blend table on
// the GPU. Image 0 carries the base (composite underlay), image 1 the overlay
// (simulation color). The Mode uniform holds the BlendMode selector and must
// produce bit-identical results to the CPU Blend function: the GPU path is a
// drop-in substitute, not an approximation.
func BlendShaderSource() []byte {
	return []byte(blendShaderSrc)
}

const blendShaderSrc = `package main

var Mode float
var UseOverlay float

func channel(base, overlay float) float {
	if Mode < 0.5 { // additive
		return clamp(base+overlay, 0, 1)
	}
	if Mode < 1.5 { // normal
		return overlay
	}
	if Mode < 2.5 { // multiply
		return base * overlay
	}
	if Mode < 3.5 { // screen
		return 1 - (1-base)*(1-overlay)
	}
	if Mode < 4.5 { // overlay
		if base < 0.5 {
			return 2 * base * overlay
		}
		return 1 - 2*(1-base)*(1-overlay)
	}
	if Mode < 5.5 { // lighten
		return max(base, overlay)
	}
	if Mode < 6.5 { // darken
		return min(base, overlay)
	}
	return clamp(base-overlay, 0, 1) // subtractive
}

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	base := imageSrc0UnsafeAt(texCoord)
	over := imageSrc1UnsafeAt(texCoord)
	if UseOverlay < 0.5 {
		return base
	}
	return vec4(
		channel(base.r, over.r),
		channel(base.g, over.g),
		channel(base.b, over.b),
		1)
}
`
