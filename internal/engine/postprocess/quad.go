package postprocess

import "github.com/go-gl/gl/v4.1-core/gl"

// quad draws a full-screen triangle generated from gl_VertexID; the VAO is
// empty but core profile requires one bound.
type quad struct {
	vao uint32
}

func newQuad() *quad {
	q := &quad{}
	gl.GenVertexArrays(1, &q.vao)
	return q
}

func (q *quad) draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

func (q *quad) destroy() {
	if q != nil && q.vao != 0 {
		gl.DeleteVertexArrays(1, &q.vao)
		q.vao = 0
	}
}

const quadVertSrc = `
out vec2 vUV;
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    vUV = pos[gl_VertexID] * 0.5 + 0.5;
}
`

const brightFragSrc = `
in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uSource;
uniform float     uThreshold;

void main() {
    vec3 color = texture(uSource, vUV).rgb;
    float luma = dot(color, vec3(0.2126, 0.7152, 0.0722));
    float k = smoothstep(uThreshold, uThreshold + 0.01, luma);
    FragColor = vec4(color * k, 1.0);
}
`

const blurFragSrc = `
in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uSource;
uniform vec2      uTexelDir;
uniform float     uWeights[TAPS];

void main() {
    vec3 result = texture(uSource, vUV).rgb * uWeights[0];
    for (int i = 1; i < TAPS; i++) {
        vec2 off = float(i) * uTexelDir;
        result += texture(uSource, vUV + off).rgb * uWeights[i];
        result += texture(uSource, vUV - off).rgb * uWeights[i];
    }
    FragColor = vec4(result, 1.0);
}
`

const outputFragSrc = `
in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uScene;
uniform sampler2D uBloom;
uniform float     uExposure;
uniform float     uBloomStrength;

void main() {
    vec3 hdr = texture(uScene, vUV).rgb;
    if (uBloomStrength > 0.0) {
        hdr += texture(uBloom, vUV).rgb * uBloomStrength;
    }
    hdr *= uExposure;
    vec3 mapped = hdr / (vec3(1.0) + hdr);
    mapped = pow(mapped, vec3(1.0 / 2.2));
    FragColor = vec4(mapped, 1.0);
}
`
