package shader

// Vertex attribute locations shared by every program.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribUV       = 2
)

// MeshVertex transforms interleaved position/normal/uv vertices.
const MeshVertex = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uNormalMatrix;
uniform mat4 uViewProj;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = normalize(mat3(uNormalMatrix) * aNormal);
    vUV = aUV;
    gl_Position = uViewProj * world;
}
`

// common holds color helpers shared by the fragment programs.
const common = `
vec3 toLinear(vec3 c) { return pow(c, vec3(2.2)); }
vec3 toDisplay(vec3 c) { return pow(c, vec3(1.0 / 2.2)); }

vec3 acesFilm(vec3 x) {
    const float a = 2.51;
    const float b = 0.03;
    const float c = 2.43;
    const float d = 0.59;
    const float e = 0.14;
    return clamp((x * (a * x + b)) / (x * (c * x + d) + e), 0.0, 1.0);
}
`

// LitFragment shades with an ambient term, two directional lights, one
// point light and a gradient environment reflection scaled by 1-roughness.
const LitFragment = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;

uniform vec4 uColor;       // sRGB color, linear alpha
uniform float uOpacity;
uniform float uRoughness;
uniform float uMetalness;
uniform int uToneMapped;

uniform sampler2D uBaseColorMap;
uniform sampler2D uNormalMap;
uniform sampler2D uRoughnessMap;
uniform sampler2D uMetalnessMap;
uniform sampler2D uOcclusionMap;
uniform int uHasBaseColor;
uniform int uHasNormal;
uniform int uHasRoughness;
uniform int uHasMetalness;
uniform int uHasOcclusion;

uniform vec3 uCameraPos;
uniform vec3 uAmbient;
uniform vec3 uKeyDir;
uniform vec3 uKeyColor;
uniform vec3 uFillDir;
uniform vec3 uFillColor;
uniform vec3 uRimPos;
uniform vec3 uRimColor;
uniform float uRimRange;
uniform vec3 uEnvTop;
uniform vec3 uEnvBottom;
uniform float uEnvIntensity;

out vec4 FragColor;
` + common + `
// Tangent frame from screen-space derivatives, no tangent attribute needed.
vec3 perturbNormal(vec3 n, vec3 p, vec2 uv) {
    vec3 dp1 = dFdx(p);
    vec3 dp2 = dFdy(p);
    vec2 duv1 = dFdx(uv);
    vec2 duv2 = dFdy(uv);
    vec3 dp2perp = cross(dp2, n);
    vec3 dp1perp = cross(n, dp1);
    vec3 t = dp2perp * duv1.x + dp1perp * duv2.x;
    vec3 b = dp2perp * duv1.y + dp1perp * duv2.y;
    float invmax = inversesqrt(max(dot(t, t), dot(b, b)));
    if (isinf(invmax) || isnan(invmax)) {
        return n;
    }
    mat3 tbn = mat3(t * invmax, b * invmax, n);
    vec3 m = texture(uNormalMap, uv).xyz * 2.0 - 1.0;
    return normalize(tbn * m);
}

vec3 shade(vec3 n, vec3 v, vec3 l, vec3 radiance, vec3 albedo, float rough, float metal) {
    vec3 h = normalize(l + v);
    float ndl = max(dot(n, l), 0.0);
    float ndh = max(dot(n, h), 0.0);
    float shininess = mix(256.0, 4.0, rough);
    vec3 f0 = mix(vec3(0.04), albedo, metal);
    vec3 diffuse = albedo * (1.0 - metal) * ndl;
    vec3 spec = f0 * pow(ndh, shininess) * ndl * (1.0 - rough * 0.7);
    return (diffuse + spec) * radiance;
}

void main() {
    vec4 base = vec4(toLinear(uColor.rgb), uColor.a);
    if (uHasBaseColor == 1) {
        base *= texture(uBaseColorMap, vUV);
    }
    float rough = uRoughness;
    if (uHasRoughness == 1) {
        rough *= texture(uRoughnessMap, vUV).g;
    }
    float metal = uMetalness;
    if (uHasMetalness == 1) {
        metal *= texture(uMetalnessMap, vUV).b;
    }
    float ao = 1.0;
    if (uHasOcclusion == 1) {
        ao = texture(uOcclusionMap, vUV).r;
    }

    vec3 n = normalize(vNormal);
    if (!gl_FrontFacing) {
        n = -n;
    }
    if (uHasNormal == 1) {
        n = perturbNormal(n, vWorldPos, vUV);
    }
    vec3 v = normalize(uCameraPos - vWorldPos);

    vec3 color = uAmbient * base.rgb * ao;
    color += shade(n, v, normalize(-uKeyDir), uKeyColor, base.rgb, rough, metal);
    color += shade(n, v, normalize(-uFillDir), uFillColor, base.rgb, rough, metal);

    vec3 toRim = uRimPos - vWorldPos;
    float dist = length(toRim);
    float atten = clamp(1.0 - dist / uRimRange, 0.0, 1.0);
    color += shade(n, v, toRim / max(dist, 1e-4), uRimColor * atten * atten, base.rgb, rough, metal);

    vec3 r = reflect(-v, n);
    vec3 env = mix(uEnvBottom, uEnvTop, r.y * 0.5 + 0.5) * uEnvIntensity;
    vec3 f0 = mix(vec3(0.04), base.rgb, metal);
    color += env * f0 * (1.0 - rough) * ao;

    if (uToneMapped == 1) {
        color = acesFilm(color);
    }
    FragColor = vec4(toDisplay(color), base.a * uOpacity);
}
`

// UnlitFragment outputs color times the base color map.
const UnlitFragment = `#version 410 core
in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;

uniform vec4 uColor;
uniform float uOpacity;
uniform int uToneMapped;
uniform sampler2D uBaseColorMap;
uniform int uHasBaseColor;

out vec4 FragColor;
` + common + `
void main() {
    vec4 base = vec4(toLinear(uColor.rgb), uColor.a);
    if (uHasBaseColor == 1) {
        base *= texture(uBaseColorMap, vUV);
    }
    vec3 color = base.rgb;
    if (uToneMapped == 1) {
        color = acesFilm(color);
    }
    FragColor = vec4(toDisplay(color), base.a * uOpacity);
}
`
