package renderer

// Sources are completed by shader.Preprocess, which adds the version line and
// the array-size defines.

const meshVertSrc = `
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uNormalMatrix;
uniform mat4 uViewProj;
uniform mat4 uShadowMatrix[MAX_SHADOWS];
uniform int  uShadowCount;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;
out vec4 vShadowPos[MAX_SHADOWS];

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uNormalMatrix) * aNormal;
    vUV = aUV;
    for (int i = 0; i < MAX_SHADOWS; i++) {
        vShadowPos[i] = i < uShadowCount ? uShadowMatrix[i] * world : vec4(0.0);
    }
    gl_Position = uViewProj * world;
}
`

const meshFragSrc = `
#define PI 3.14159265359

struct Spot {
    vec3  position;
    vec3  direction;
    vec3  color;
    float intensity;
    float distance;
    float decay;
    float coneCos;
    float penumbraCos;
    int   shadow;
};

struct Directional {
    vec3  direction;
    vec3  color;
    float intensity;
};

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;
in vec4 vShadowPos[MAX_SHADOWS];

uniform Spot        uSpots[MAX_SPOT_LIGHTS];
uniform int         uSpotCount;
uniform Directional uDirs[MAX_DIR_LIGHTS];
uniform int         uDirCount;
uniform vec3        uAmbient;

uniform sampler2DShadow uShadowMaps[MAX_SHADOWS];
uniform bool            uReceiveShadow;

uniform vec3      uCameraPos;
uniform vec3      uColor;
uniform vec3      uEmissive;
uniform float     uMetalness;
uniform float     uRoughness;
uniform float     uOpacity;
uniform bool      uHasMap;
uniform sampler2D uMap;

uniform bool  uFog;
uniform vec3  uFogColor;
uniform float uFogDensity;

out vec4 FragColor;

float shadowFactor(int idx) {
    if (!uReceiveShadow || idx < 0) {
        return 1.0;
    }
    float lit = 1.0;
    for (int i = 0; i < MAX_SHADOWS; i++) {
        if (i != idx) {
            continue;
        }
        vec3 p = vShadowPos[i].xyz / vShadowPos[i].w;
        p = p * 0.5 + 0.5;
        if (p.z > 1.0) {
            return 1.0;
        }
        p.z -= 0.0005;
        lit = texture(uShadowMaps[i], p);
    }
    return lit;
}

float distributionGGX(float NdotH, float roughness) {
    float a = roughness * roughness;
    float a2 = a * a;
    float d = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

vec3 shade(vec3 N, vec3 V, vec3 L, vec3 radiance, vec3 albedo) {
    float NdotL = max(dot(N, L), 0.0);
    if (NdotL <= 0.0) {
        return vec3(0.0);
    }
    vec3 H = normalize(L + V);
    float NdotH = max(dot(N, H), 0.0);
    vec3 F0 = mix(vec3(0.04), albedo, uMetalness);
    vec3 F = F0 + (1.0 - F0) * pow(1.0 - max(dot(H, V), 0.0), 5.0);
    float roughness = max(uRoughness, 0.04);
    vec3 spec = F * distributionGGX(NdotH, roughness) * 0.25;
    vec3 diffuse = (1.0 - F) * (1.0 - uMetalness) * albedo / PI;
    return (diffuse + spec) * radiance * NdotL;
}

void main() {
    vec3 albedo = uColor;
    float alpha = uOpacity;
    if (uHasMap) {
        vec4 texel = texture(uMap, vUV);
        albedo *= texel.rgb;
        alpha *= texel.a;
    }

    vec3 N = normalize(vNormal);
    if (!gl_FrontFacing) {
        N = -N;
    }
    vec3 V = normalize(uCameraPos - vWorldPos);

    vec3 color = uAmbient * albedo;

    for (int i = 0; i < uSpotCount; i++) {
        vec3 toLight = uSpots[i].position - vWorldPos;
        float dist = length(toLight);
        vec3 L = toLight / dist;
        float cosAngle = dot(-L, uSpots[i].direction);
        float cone = smoothstep(uSpots[i].coneCos, uSpots[i].penumbraCos, cosAngle);
        if (cone <= 0.0) {
            continue;
        }
        float falloff = 1.0 / max(pow(dist, uSpots[i].decay), 0.01);
        if (uSpots[i].distance > 0.0) {
            float r = dist / uSpots[i].distance;
            float w = clamp(1.0 - r * r * r * r, 0.0, 1.0);
            falloff *= w * w;
        }
        vec3 radiance = uSpots[i].color * uSpots[i].intensity * falloff * cone;
        color += shade(N, V, L, radiance, albedo) * shadowFactor(uSpots[i].shadow);
    }

    for (int i = 0; i < uDirCount; i++) {
        vec3 L = -uDirs[i].direction;
        color += shade(N, V, L, uDirs[i].color * uDirs[i].intensity, albedo);
    }

    color += uEmissive;

    if (uFog) {
        float d = length(uCameraPos - vWorldPos);
        float f = 1.0 - exp(-uFogDensity * uFogDensity * d * d);
        color = mix(color, uFogColor, clamp(f, 0.0, 1.0));
    }

    FragColor = vec4(color, alpha);
}
`

const depthVertSrc = `
layout (location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uLightMatrix;

void main() {
    gl_Position = uLightMatrix * uModel * vec4(aPos, 1.0);
}
`

const depthFragSrc = `
void main() {}
`
