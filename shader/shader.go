// Package shader holds the GLSL sources for the gradient pipeline and the
// uniform names the engine binds against.
package shader

import (
	"fmt"

	"github.com/gopour/gopour/config"
)

// Uniform names shared between the fragment source and the engine's
// location cache.
const (
	UniformTime           = "u_time"
	UniformResolution     = "u_resolution"
	UniformCycleSpeed     = "u_cycleSpeed"
	UniformGrainIntensity = "u_grainIntensity"
	UniformColorCount     = "u_colorCount"
	UniformColors         = "u_colors"
)

// VertexSource is a passthrough: the quad already spans clip space.
const VertexSource = `#version 410 core
layout (location = 0) in vec2 in_pos;
void main() {
    gl_Position = vec4(in_pos, 0.0, 1.0);
}
`

// FragmentSource returns the flow-field program. The palette arrives as a
// uniform array of config.MaxColors stops plus a count, so any palette length
// the config accepts renders without truncation.
//
// Every angular rate in the source is an integer harmonic of the palette
// cycle (one cycle = 1/0.12 slow-time units, so the base rate is
// TAU * 0.12 = 0.754), and noise is advected along circular orbits at those
// same harmonics. That keeps the whole field loop-exact: the image at
// t + fullCycleDuration matches the image at t.
//
// The math here is mirrored line for line by the field package; any change to
// one must be applied to both.
func FragmentSource() string {
	return fmt.Sprintf(fragmentTemplate, config.MaxColors)
}

const fragmentTemplate = `#version 410 core
out vec4 fragColor;

uniform float u_time;
uniform vec2  u_resolution;
uniform float u_cycleSpeed;
uniform float u_grainIntensity;
uniform int   u_colorCount;
uniform vec3  u_colors[%d];

float hash21(vec2 p) {
    return fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453123);
}

float vnoise(vec2 p) {
    vec2 i = floor(p);
    vec2 f = fract(p);
    vec2 u = f * f * (3.0 - 2.0 * f);
    float a = hash21(i);
    float b = hash21(i + vec2(1.0, 0.0));
    float c = hash21(i + vec2(0.0, 1.0));
    float d = hash21(i + vec2(1.0, 1.0));
    return mix(mix(a, b, u.x), mix(c, d, u.x), u.y);
}

float fbm4(vec2 p) {
    float sum = 0.0;
    float amp = 0.5;
    for (int i = 0; i < 4; i++) {
        sum += amp * vnoise(p);
        p *= 2.0;
        amp *= 0.5;
    }
    return sum;
}

float fbm3(vec2 p) {
    float sum = 0.0;
    float amp = 0.5;
    for (int i = 0; i < 3; i++) {
        sum += amp * vnoise(p);
        p *= 2.0;
        amp *= 0.5;
    }
    return sum;
}

float fbm2(vec2 p) {
    return 0.5 * vnoise(p) + 0.25 * vnoise(p * 2.0);
}

vec2 orbit(float a) {
    return vec2(cos(a), sin(a));
}

void main() {
    vec2 uv = gl_FragCoord.xy / u_resolution;
    float aspect = u_resolution.x / u_resolution.y;
    vec2 st = vec2(uv.x * aspect, uv.y);

    float slowTime = u_time / u_cycleSpeed;
    float midTime  = slowTime * 1.3;
    float fastTime = slowTime * 2.5;

    // Large-scale flow fields. Each models one motion of poured paint.
    float pourHeight = sin(st.y * 3.0 - slowTime * 1.508 + sin(st.x * 2.0) * 0.8) * 0.5 + 0.5;
    float dripLeft   = sin(st.y * 5.0 + slowTime * 2.262 + 1.7) * smoothstep(0.4, 0.0, uv.x);
    float dripRight  = sin(st.y * 4.0 - midTime * 1.16 + 4.2) * smoothstep(0.6, 1.0, uv.x);
    float dripCenter = cos(st.y * 6.0 - slowTime * 0.754 + 2.9) * (1.0 - abs(uv.x - 0.5) * 2.0);
    float spreadA    = sin(st.x * 3.5 + midTime * 0.58) * 0.5 + 0.5;
    float spreadB    = cos(st.x * 5.5 - fastTime * 0.6032 + 1.3);
    float riseA      = sin(st.y * 2.5 + midTime * 1.74 + 0.6);
    float riseB      = cos(st.y * 4.5 - fastTime * 0.9048 + 3.1);
    float diagA      = sin((st.x + st.y) * 3.0 + slowTime * 1.508 + 0.9);
    float diagB      = sin((st.x - st.y) * 4.0 - midTime * 2.32 + 2.2);
    float mixing     = fbm4(st * 3.0 + 0.6 * orbit(slowTime * 0.754));

    vec2 centered = st - vec2(0.5 * aspect, 0.5);
    float angle = atan(centered.y, centered.x);
    float swirl = sin(angle * 3.0 + slowTime * 0.754 + length(centered) * 4.0);

    // Fine turbulence: three noise bands at rising frequency and falling
    // octave count, each advected at its own rate.
    float breathing = fbm4(st * 2.0 + 0.5 * orbit(slowTime * 0.754)) * 0.5
                    + fbm3(st * 3.0 + 0.4 * orbit(midTime * 1.16 + 2.1)) * 0.3
                    + fbm2(st * 5.0 + 0.3 * orbit(fastTime * 0.9048 + 4.4)) * 0.2;

    float gradientPosition = pourHeight * 0.35
                           + breathing  * 0.15
                           + dripLeft   * 0.06
                           + dripRight  * 0.06
                           + dripCenter * 0.05
                           + spreadA    * 0.08
                           + spreadB    * 0.04
                           + riseA      * 0.07
                           + riseB      * 0.04
                           + diagA      * 0.05
                           + diagB      * 0.03
                           + mixing     * 0.10
                           + swirl      * 0.05;

    gradientPosition = fract(gradientPosition + slowTime * 0.12);

    float scaled = gradientPosition * float(u_colorCount);
    int idx = int(scaled);
    if (idx >= u_colorCount) {
        idx = u_colorCount - 1;
    }
    int nxt = (idx + 1) %% u_colorCount;
    vec3 color = mix(u_colors[idx], u_colors[nxt], scaled - float(idx));

    float grain = (hash21(gl_FragCoord.xy + vec2(u_time * 60.0, u_time * 37.0)) - 0.5)
                * u_grainIntensity * 0.15;
    color += vec3(grain);

    // Soft moving highlights over the paint surface.
    vec2 g1 = vec2((0.3 + 0.2 * sin(slowTime * 0.754)) * aspect, 0.35 + 0.25 * cos(slowTime * 1.508 + 1.0));
    vec2 g2 = vec2((0.7 + 0.18 * cos(midTime * 1.16 + 2.5)) * aspect, 0.6 + 0.2 * sin(midTime * 0.58));
    vec2 g3 = vec2((0.5 + 0.3 * sin(fastTime * 0.6032 + 4.0)) * aspect, 0.25 + 0.15 * cos(fastTime * 0.3016 + 0.7));
    float glow = (1.0 - smoothstep(0.0, 0.45, distance(st, g1))) * 0.12
               + (1.0 - smoothstep(0.0, 0.4, distance(st, g2))) * 0.10
               + (1.0 - smoothstep(0.0, 0.5, distance(st, g3))) * 0.06;
    color += vec3(glow);

    fragColor = vec4(color, 1.0);
}
`
