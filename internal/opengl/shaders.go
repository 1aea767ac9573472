package opengl

// Every program shares one vertex stage. Attribute locations follow the
// field order of core.Vertex; location 3 (color) is uploaded but unused.
const sphereVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 4) in vec3 inTangent;
layout(location = 5) in vec3 inBitangent;

uniform mat4 mvp;
uniform mat4 model;

out vec3 fragWorldPos;
out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragTangent;
out vec3 fragBitangent;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    // bodies are scaled uniformly, so mat3(model) keeps normals perpendicular
    mat3 normalMat = mat3(model);

    fragWorldPos  = world.xyz;
    fragNormal    = normalMat * inNormal;
    fragTangent   = normalMat * inTangent;
    fragBitangent = normalMat * inBitangent;
    fragUV        = inUV;
    gl_Position   = mvp * vec4(inPosition, 1.0);
}
` + "\x00"

// unlitFragSrc draws the texture as-is: the skybox and the sun.
const unlitFragSrc = `
#version 410 core
in vec2 fragUV;

uniform sampler2D diffuseTex;

out vec4 outColor;

void main() {
    outColor = vec4(texture(diffuseTex, fragUV).rgb, 1.0);
}
` + "\x00"

// phongFragSrc lights a planet from a point light at the sun: ambient,
// Lambert diffuse and a weak Blinn highlight. With useTexAlpha the texture
// alpha becomes the fragment alpha, for cloud shells.
const phongFragSrc = `
#version 410 core
in vec3 fragWorldPos;
in vec3 fragNormal;
in vec2 fragUV;

uniform sampler2D diffuseTex;
uniform vec3  cameraPos;
uniform vec3  lightPos;
uniform vec3  lightColor;
uniform float ambient;
uniform float glossiness;
uniform bool  useTexAlpha;

out vec4 outColor;

const float specularStrength = 0.2;

void main() {
    vec4 albedo = texture(diffuseTex, fragUV);

    vec3 N = normalize(fragNormal);
    vec3 L = normalize(lightPos - fragWorldPos);
    vec3 V = normalize(cameraPos - fragWorldPos);
    vec3 H = normalize(L + V);

    float diff = max(dot(N, L), 0.0);
    float spec = diff > 0.0 ? pow(max(dot(N, H), 0.0), glossiness) : 0.0;

    vec3 color = albedo.rgb * (ambient + diff * lightColor)
               + specularStrength * spec * lightColor;
    outColor = vec4(color, useTexAlpha ? albedo.a : 1.0);
}
` + "\x00"

// earthFragSrc adds a specular map (oceans shine, land does not) and a
// tangent-space normal map to the Phong model.
const earthFragSrc = `
#version 410 core
in vec3 fragWorldPos;
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragTangent;
in vec3 fragBitangent;

uniform sampler2D diffuseTex;
uniform sampler2D specularTex;
uniform sampler2D normalTex;
uniform bool  hasSpecularTex;
uniform bool  hasNormalTex;
uniform vec3  cameraPos;
uniform vec3  lightPos;
uniform vec3  lightColor;
uniform float ambient;
uniform float glossiness;

out vec4 outColor;

void main() {
    vec3 albedo = texture(diffuseTex, fragUV).rgb;

    vec3 N = normalize(fragNormal);
    if (hasNormalTex) {
        mat3 TBN = mat3(normalize(fragTangent), normalize(fragBitangent), N);
        N = normalize(TBN * (texture(normalTex, fragUV).rgb * 2.0 - 1.0));
    }
    float gloss = hasSpecularTex ? texture(specularTex, fragUV).r : 0.2;

    vec3 L = normalize(lightPos - fragWorldPos);
    vec3 V = normalize(cameraPos - fragWorldPos);
    vec3 H = normalize(L + V);

    float diff = max(dot(N, L), 0.0);
    float spec = diff > 0.0 ? pow(max(dot(N, H), 0.0), glossiness) : 0.0;

    vec3 color = albedo * (ambient + diff * lightColor) + gloss * spec * lightColor;
    outColor = vec4(color, 1.0);
}
` + "\x00"
